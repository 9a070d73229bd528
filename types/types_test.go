package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRecordSet(t *testing.T) {
	var rec ImageRecord

	rec.Set("Camera_Make", "Canon")
	rec.Set("aperture", 2.8)
	rec.Set("date_time_original", "2023:05:01 10:11:12")
	rec.Set("mood", "sunny")

	assert.Equal(t, "Canon", rec.CameraMake)
	assert.Equal(t, "2.8", rec.Aperture)
	require.NotNil(t, rec.TakenAt)
	assert.Equal(t, 2023, rec.TakenAt.Year())
	assert.Equal(t, time.May, rec.TakenAt.Month())
	assert.Equal(t, map[string]string{"mood": "sunny"}, rec.Extra)

	v, ok := rec.Get("camera_make")
	assert.True(t, ok)
	assert.Equal(t, "Canon", v)

	v, ok = rec.Get("mood")
	assert.True(t, ok)
	assert.Equal(t, "sunny", v)

	_, ok = rec.Get("missing")
	assert.False(t, ok)
}

func TestImageRecordFieldsCovered(t *testing.T) {
	var rec ImageRecord
	for _, name := range StringFields {
		assert.NotNil(t, rec.field(name), name)
	}
}

func TestHasTitle(t *testing.T) {
	assert.False(t, (&ImageRecord{}).HasTitle())
	assert.False(t, (&ImageRecord{Title: PlaceholderTitle}).HasTitle())
	assert.True(t, (&ImageRecord{Title: "Harbour"}).HasTitle())
	assert.False(t, IsRealTitle("  No title "))
	assert.True(t, IsRealTitle(" Harbour"))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"exif layout", "2021:12:24 18:00:00", true},
		{"rfc3339", "2021-12-24T18:00:00Z", true},
		{"time value", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", false},
		{"empty", "", false},
		{"zero time", time.Time{}, false},
		{"number", 12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.value)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "5.6", FormatValue(5.6))
	assert.Equal(t, "100", FormatValue(100))
	assert.Equal(t, "a, b", FormatValue([]string{"a", "b"}))
}

func TestMetadataClone(t *testing.T) {
	md := Metadata{"city": "oslo"}
	c := md.Clone()
	c["city"] = "bergen"
	assert.Equal(t, "oslo", md["city"])
	assert.Equal(t, "", md.String("missing"))
}

func TestRuleMatches(t *testing.T) {
	r := TransformationRule{SourceField: "city", Keywords: []string{"nyc", " New York City "}}
	assert.True(t, r.Matches(" NYC "))
	assert.True(t, r.Matches("new york city"))
	assert.False(t, r.Matches("york"))
	assert.False(t, TransformationRule{}.Matches(""))
}

func TestNormalizeRule(t *testing.T) {
	r, err := NormalizeRule(TransformationRule{
		SourceField: " City ",
		Keywords:    []string{" London", "PARIS", " "},
		TargetValue: "Europe",
	})
	require.NoError(t, err)
	assert.Equal(t, "city", r.SourceField)
	assert.Equal(t, "city", r.TargetField)
	assert.Equal(t, []string{"london", "paris"}, r.Keywords)
	assert.Equal(t, "Europe", r.TargetValue)

	_, err = NormalizeRule(TransformationRule{Keywords: []string{"x"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "source_field", verr.Field)

	_, err = NormalizeRule(TransformationRule{SourceField: "city"})
	require.Error(t, err)
}

func TestNormalizeDefault(t *testing.T) {
	d, err := NormalizeDefault(DefaultValue{CameraMake: "Canon", CameraModel: "EOS R5", TargetField: "Copyright", TargetValue: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "canon", d.CameraMake)
	assert.Equal(t, "eos r5", d.CameraModel)
	assert.Equal(t, "copyright", d.TargetField)
	assert.Equal(t, "ACME", d.TargetValue)

	_, err = NormalizeDefault(DefaultValue{CameraMake: "Canon"})
	require.Error(t, err)
}

func TestNormalizeSetup(t *testing.T) {
	s, err := NormalizeSetup(TransformationSetup{
		CameraMake:       "Canon",
		CameraModel:      "EOS R5",
		KeywordsToIgnore: " foo,BAR ,, baz",
	})
	require.NoError(t, err)
	assert.Equal(t, "Foo, Bar, Baz", s.KeywordsToIgnore)
	assert.Equal(t, "/", s.CategoryDivider)
	assert.Equal(t, "~", s.CharactersToTrimFromKeywords)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, s.IgnoreList())

	again, err := NormalizeSetup(s)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Hello world", Capitalize("hELLO WORLD"))
	assert.Equal(t, "Ørsted", Capitalize("øRSTED"))
	assert.Equal(t, "", Capitalize(""))
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ExtractionError{Path: "/a.jpg", Err: cause})
	assert.ErrorIs(t, err, cause)

	err = &PersistenceError{Op: "save image", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save image")
}

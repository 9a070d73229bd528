package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exifimage/types"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"28/5", 5.6, false},
		{"4/1", 4, false},
		{" 18 / 10 ", 1.8, false},
		{"2.8", 2.8, false},
		{"0/0", 0, true},
		{"5/0", 0, true},
		{"abc", 0, true},
		{"1/x", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRational(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRemapFields(t *testing.T) {
	md := Remap(types.RawMetadata{
		"Image Make":            "FUJIFILM",
		"Image Model":           "X-T5",
		"EXIF FNumber":          "28/5",
		"EXIF ExposureTime":     "1/250",
		"EXIF DateTimeOriginal": "2024:03:09 14:05:00",
		"by-line":               "Thomas",
		"caption/abstract":      "Harbour at dusk",
		"custom13":              "Norway",
		"sub-location":          "Pier",
		"keywords":              "sea, boats",
	})

	assert.Equal(t, "FUJIFILM", md["camera_make"])
	assert.Equal(t, "X-T5", md["camera_model"])
	assert.InDelta(t, 5.6, md["aperture"], 1e-9)
	assert.Equal(t, "1/250", md["shutter_speed"])
	assert.Equal(t, "Thomas", md["by_line"])
	assert.Equal(t, "Harbour at dusk", md["caption"])
	assert.Equal(t, "Norway", md["country"])
	assert.Equal(t, "Pier", md["location"])
	assert.Equal(t, "sea, boats", md["keywords"])

	ts, ok := md["date_time_original"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 14, ts.Hour())
}

func TestRemapDropsFalsyValues(t *testing.T) {
	md := Remap(types.RawMetadata{
		"Image Make":   "",
		"EXIF FNumber": "0/0",
		"city":         "  ",
		"credit":       "AP",
	})

	assert.NotContains(t, md, "camera_make")
	assert.NotContains(t, md, "aperture")
	assert.NotContains(t, md, "city")
	assert.NotContains(t, md, "state")
	assert.Equal(t, "AP", md["credit"])
	for k, v := range md {
		assert.NotEmpty(t, v, k)
	}
}

func TestRemapMalformedValuesAreOmitted(t *testing.T) {
	md := Remap(types.RawMetadata{
		"EXIF FNumber":          "f/two",
		"EXIF DateTimeOriginal": "not a date",
	})
	assert.NotContains(t, md, "aperture")
	assert.NotContains(t, md, "date_time_original")
}

func TestRemapDateTimePassesThrough(t *testing.T) {
	when := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	md := Remap(types.RawMetadata{"EXIF DateTimeOriginal": when})
	assert.Equal(t, when, md["date_time_original"])
}

func TestRemapAcceptsRFC3339Date(t *testing.T) {
	md := Remap(types.RawMetadata{"EXIF DateTimeOriginal": "2024-05-17T10:30:00Z"})
	ts, ok := md["date_time_original"].(time.Time)
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)))
}

func TestRemapTitleFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  types.RawMetadata
		want string
	}{
		{"explicit title", types.RawMetadata{"title": "T", "headline": "H", "object name": "O"}, "T"},
		{"headline", types.RawMetadata{"headline": "H", "object name": "O"}, "H"},
		{"object name only", types.RawMetadata{"object name": "Sunset"}, "Sunset"},
		{"nothing", types.RawMetadata{}, "No title"},
		{"blank headline", types.RawMetadata{"headline": " ", "object name": "O"}, "O"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remap(tt.raw)["title"])
		})
	}
}

func TestRemapStateFallsBackToCustom11(t *testing.T) {
	assert.Equal(t, "Viken", Remap(types.RawMetadata{"custom11": "Viken"})["state"])
	assert.Equal(t, "Oslo", Remap(types.RawMetadata{"custom11": "Viken", "province/state": "Oslo"})["state"])
}

func TestRemapKeysAreCaseInsensitive(t *testing.T) {
	md := Remap(types.RawMetadata{"IMAGE MAKE": "Canon", "By-Line": "Ann"})
	assert.Equal(t, "Canon", md["camera_make"])
	assert.Equal(t, "Ann", md["by_line"])
}

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exifimage/types"
)

func fujiRaw() types.RawMetadata {
	return types.RawMetadata{
		"Image Make":            "FUJIFILM",
		"Image Model":           "X-T5",
		"Image Software":        "Digital Camera X-T5 Ver2.00",
		"EXIF FNumber":          "28/5",
		"EXIF DateTimeOriginal": "2024:03:09 14:05:00",
		"keywords":              "~Sea, boats, skip me, ~",
		"category":              "Travel/Norway",
		"caption/abstract":      "Boats in the harbour",
		"sub-location":          "home",
	}
}

func fujiSetup() types.TransformationSetup {
	return types.TransformationSetup{
		CameraMake:                          "Fujifilm",
		CameraModel:                         "x-t5",
		ConvertCategoriesToCollections:      true,
		CategoryDivider:                     "/",
		ConvertCameraModelToTag:             true,
		CopyCaptionHeadlineToTitleIfMissing: true,
		KeywordsToIgnore:                    "Skip me",
		CharactersToTrimFromKeywords:        "~",
	}
}

func TestProcessFullRun(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.setups = []types.TransformationSetup{fujiSetup()}
	store.defaults = []types.DefaultValue{
		{CameraMake: "fujifilm", CameraModel: "x-t5", TargetField: "artist", TargetValue: "Thomas Weholt"},
	}
	store.rules = []types.TransformationRule{
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Some place"},
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Some city", TargetField: "city"},
		{SourceField: "camera_model", Keywords: []string{"x-t5"}, TargetValue: "X-T5 Mirrorless"},
	}
	ex := &staticExtractor{raw: fujiRaw()}
	p := NewProcessor(store, store, ex)

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/a.jpg"}
	run, err := p.Save(ctx, rec, Request{})
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, StageFinalized, run.Stage)
	assert.Equal(t, 1, ex.calls)
	assert.True(t, rec.HasProcessedMetadata)

	assert.Equal(t, "Some place", rec.Location)
	assert.Equal(t, "Some city", rec.City)
	assert.Equal(t, "Thomas Weholt", rec.Artist)
	assert.Equal(t, "X-T5 Mirrorless", rec.CameraModel)
	assert.Equal(t, "5.6", rec.Aperture)
	require.NotNil(t, rec.TakenAt)
	assert.Equal(t, "Boats in the harbour", rec.Title)
	assert.Equal(t, "Sea, Boats", rec.Keywords)

	assert.Equal(t, []string{"Sea", "Boats", "Travel", "Norway", "Digital Camera X-T5 Ver2.00", "X-T5 Mirrorless"}, rec.Tags)
	assert.Equal(t, []string{"Travel", "Norway"}, store.path(rec.CollectionID))

	stored := store.images[rec.ID]
	assert.True(t, stored.HasProcessedMetadata)
	assert.Equal(t, "Some city", stored.City)
	assert.Equal(t, 1, store.ruleQueries)
}

func TestSaveSkipsProcessedRecords(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	ex := &staticExtractor{raw: fujiRaw()}
	p := NewProcessor(store, store, ex)

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/a.jpg"}
	_, err := p.Save(ctx, rec, Request{})
	require.NoError(t, err)
	savesAfterFirst := store.saves

	rec.Story = "edited"
	run, err := p.Save(ctx, rec, Request{})
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.Equal(t, 1, ex.calls)
	assert.Equal(t, savesAfterFirst+1, store.saves)
}

func TestProcessWithoutSetup(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	p := NewProcessor(store, store, &staticExtractor{})

	raw := fujiRaw()
	raw["Image Make"] = "Canon"
	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/b.jpg"}

	run, err := p.Save(ctx, rec, Request{Raw: raw})
	require.NoError(t, err)

	assert.Nil(t, run.Setup)
	assert.Nil(t, run.Collection)
	assert.Zero(t, rec.CollectionID)
	assert.Equal(t, "~Sea, boats, skip me, ~", rec.Keywords)
	assert.Equal(t, []string{"~Sea", "boats", "skip me", "~", "Digital Camera X-T5 Ver2.00"}, rec.Tags)
	assert.Equal(t, types.PlaceholderTitle, rec.Title)
}

func TestProcessExplicitCollectionWins(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.setups = []types.TransformationSetup{fujiSetup()}
	p := NewProcessor(store, store, &staticExtractor{})

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/c.jpg"}
	_, err := p.Save(ctx, rec, Request{Raw: fujiRaw(), Collections: []string{"2024", "Trips"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024", "Trips"}, store.path(rec.CollectionID))

	other := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/d.jpg"}
	_, err = p.Save(ctx, other, Request{Raw: fujiRaw(), Collections: []string{"2024", "Trips"}})
	require.NoError(t, err)
	assert.Equal(t, rec.CollectionID, other.CollectionID)
	assert.Len(t, store.nodes, 3)
}

func TestProcessExtractionFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	p := NewProcessor(store, store, &staticExtractor{err: errors.New("corrupt file")})

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/broken.jpg"}
	run, err := p.Save(ctx, rec, Request{})

	var extractionErr *types.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "/photos/broken.jpg", extractionErr.Path)
	assert.Equal(t, StageUploaded, run.Stage)
	assert.False(t, rec.HasProcessedMetadata)
	assert.False(t, store.images[rec.ID].HasProcessedMetadata)
}

func TestProcessFinalizeFailureResetsFlag(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.failOnSave = 2
	p := NewProcessor(store, store, &staticExtractor{raw: fujiRaw()})

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/a.jpg"}
	run, err := p.Save(ctx, rec, Request{})

	var persistenceErr *types.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, StageTaggedAndCollected, run.Stage)
	assert.False(t, rec.HasProcessedMetadata)
	assert.False(t, store.images[rec.ID].HasProcessedMetadata)
}

func TestProcessDropsMalformedFields(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	p := NewProcessor(store, store, &staticExtractor{})

	rec := &types.ImageRecord{OwnerID: 1, FilePath: "/photos/e.jpg"}
	run, err := p.Save(ctx, rec, Request{Raw: types.RawMetadata{
		"EXIF FNumber":          "0/0",
		"EXIF DateTimeOriginal": "garbage",
		"object name":           "Sunset",
	}})
	require.NoError(t, err)

	assert.Equal(t, StageFinalized, run.Stage)
	assert.Empty(t, rec.Aperture)
	assert.Nil(t, rec.TakenAt)
	assert.Equal(t, "Sunset", rec.Title)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "uploaded", StageUploaded.String())
	assert.Equal(t, "finalized", StageFinalized.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exifimage/types"
)

func TestComputeTagsWithSetup(t *testing.T) {
	setup := &types.TransformationSetup{
		CategoryDivider:         ">",
		ConvertCameraMakeToTag:  true,
		ConvertLensModelToTag:   true,
		ConvertCameraModelToTag: false,
	}
	md := types.Metadata{
		"category":     "nature > BIRDS",
		"software":     "Lightroom",
		"camera_make":  "Canon",
		"camera_model": "R5",
		"lens_model":   "RF 100-500",
	}

	got := ComputeTags(md, []string{"Heron"}, setup)

	assert.Equal(t, []string{"Heron", "Nature", "Birds", "Lightroom", "Canon", "RF 100-500"}, got)
}

func TestComputeTagsWithoutSetup(t *testing.T) {
	md := types.Metadata{"category": "nature/birds", "software": "Darktable", "camera_make": "Canon"}

	got := ComputeTags(md, []string{"Heron", "Lake"}, nil)

	assert.Equal(t, []string{"Heron", "Lake", "Darktable"}, got)
}

func TestComputeTagsSkipsEmpty(t *testing.T) {
	setup := &types.TransformationSetup{ConvertLensMakeToTag: true}
	got := ComputeTags(types.Metadata{"category": "a//b"}, []string{" "}, setup)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestComputeCollectionPath(t *testing.T) {
	converting := &types.TransformationSetup{ConvertCategoriesToCollections: true, CategoryDivider: "/"}
	plain := &types.TransformationSetup{CategoryDivider: "/"}

	tests := []struct {
		name     string
		explicit []string
		category string
		setup    *types.TransformationSetup
		want     []string
	}{
		{"explicit wins", []string{"2024", " Trips "}, "a/b", converting, []string{"2024", "Trips"}},
		{"category converted", nil, "Travel / Norway", converting, []string{"Travel", "Norway"}},
		{"conversion disabled", nil, "Travel/Norway", plain, nil},
		{"no setup", nil, "Travel/Norway", nil, nil},
		{"blank explicit falls back", []string{"", " "}, "x", converting, []string{"x"}},
		{"nothing", nil, "", converting, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCollectionPath(tt.explicit, tt.category, tt.setup))
		})
	}
}

func TestFillMissingTitle(t *testing.T) {
	setup := &types.TransformationSetup{CopyCaptionHeadlineToTitleIfMissing: true}

	md := types.Metadata{"title": types.PlaceholderTitle, "caption": "Boats", "headline": "Harbour"}
	assert.True(t, FillMissingTitle(md, setup))
	assert.Equal(t, "Boats", md["title"])

	md = types.Metadata{"headline": "Harbour"}
	assert.True(t, FillMissingTitle(md, setup))
	assert.Equal(t, "Harbour", md["title"])

	md = types.Metadata{"title": "  ", "caption": " Boats "}
	assert.True(t, FillMissingTitle(md, setup))
	assert.Equal(t, "Boats", md["title"])

	md = types.Metadata{"title": "Kept", "caption": "Boats"}
	assert.False(t, FillMissingTitle(md, setup))
	assert.Equal(t, "Kept", md["title"])

	md = types.Metadata{"caption": "Boats"}
	assert.False(t, FillMissingTitle(md, &types.TransformationSetup{}))
	assert.False(t, FillMissingTitle(md, nil))
}

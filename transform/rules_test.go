package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exifimage/types"
)

func TestTransformMatchingRule(t *testing.T) {
	rules := []types.TransformationRule{
		{SourceField: "camera_model", Keywords: []string{"ilce7m3/b", "ilce7m3"}, TargetValue: "A7 III"},
	}

	got := Transform(types.Metadata{"camera_model": " ILCE7M3/B "}, rules)
	assert.Equal(t, "A7 III", got["camera_model"])

	got = Transform(types.Metadata{"camera_model": "ILCE9"}, rules)
	assert.Equal(t, "ILCE9", got["camera_model"])
}

func TestTransformLocationAndCity(t *testing.T) {
	rules := []types.TransformationRule{
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Some place"},
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Some city", TargetField: "city"},
	}

	got := Transform(types.Metadata{"location": "home"}, rules)

	assert.Equal(t, types.Metadata{"location": "Some place", "city": "Some city"}, got)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	input := types.Metadata{"location": "home", "city": "Oslo"}
	original := input.Clone()
	rules := []types.TransformationRule{
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Some place"},
		{SourceField: "city", Keywords: []string{"oslo"}, TargetValue: "Bergen"},
	}

	_ = Transform(input, rules)

	assert.Equal(t, original, input)
}

func TestTransformNonMatchKeepsEarlierMatch(t *testing.T) {
	rules := []types.TransformationRule{
		{SourceField: "location", Keywords: []string{"home"}, TargetValue: "Home town", TargetField: "city"},
		{SourceField: "location", Keywords: []string{"work"}, TargetValue: "Office town", TargetField: "city"},
	}

	got := Transform(types.Metadata{"location": "home"}, rules)

	assert.Equal(t, "Home town", got["city"])
	assert.Equal(t, "home", got["location"])
}

func TestTransformLaterRuleWins(t *testing.T) {
	rules := []types.TransformationRule{
		{ID: 1, SourceField: "city", Keywords: []string{"nyc"}, TargetValue: "New York"},
		{ID: 2, SourceField: "city", Keywords: []string{"nyc", "new york city"}, TargetValue: "New York City"},
	}

	got := Transform(types.Metadata{"city": "NYC"}, rules)

	assert.Equal(t, "New York City", got["city"])
}

func TestTransformRulesDoNotChain(t *testing.T) {
	rules := []types.TransformationRule{
		{SourceField: "city", Keywords: []string{"a"}, TargetValue: "b"},
		{SourceField: "city", Keywords: []string{"b"}, TargetValue: "c"},
	}

	assert.Equal(t, "b", Transform(types.Metadata{"city": "a"}, rules)["city"])
}

func TestTransformIgnoresAbsentSource(t *testing.T) {
	rules := []types.TransformationRule{
		{SourceField: "city", Keywords: []string{""}, TargetValue: "Nowhere"},
	}

	assert.Equal(t, types.Metadata{"credit": "AP"}, Transform(types.Metadata{"credit": "AP"}, rules))
}

func TestApplyDefaultsFillsAbsent(t *testing.T) {
	defaults := []types.DefaultValue{
		{CameraMake: "fujifilm", CameraModel: "xt-5", TargetField: "creator", TargetValue: "Thomas Weholt"},
	}

	input := types.Metadata{"camera_make": "fujifilm", "camera_model": "xt-5"}
	original := input.Clone()
	got := ApplyDefaults(input, defaults)

	assert.Equal(t, "Thomas Weholt", got["creator"])
	assert.Equal(t, original, input)

	input = types.Metadata{"camera_make": "FUJIFILM", "camera_model": "XT-5", "creator": "Someone"}
	got = ApplyDefaults(input, defaults)
	assert.Equal(t, "Someone", got["creator"])
}

func TestApplyDefaultsRequiresMakeAndModel(t *testing.T) {
	defaults := []types.DefaultValue{
		{CameraMake: "fujifilm", CameraModel: "xt-5", TargetField: "creator", TargetValue: "Thomas Weholt"},
	}

	input := types.Metadata{"camera_make": "fujifilm"}
	got := ApplyDefaults(input, defaults)
	assert.Equal(t, input, got)

	got["x"] = "y"
	assert.NotContains(t, input, "x")

	got = ApplyDefaults(types.Metadata{"camera_make": "canon", "camera_model": "r5"}, defaults)
	assert.NotContains(t, got, "creator")
}

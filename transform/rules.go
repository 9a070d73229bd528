// Package transform holds the pure metadata transformations: rule substitution,
// camera defaults, keyword cleanup and the tag and collection computations.
package transform

import (
	"strings"

	"exifimage/types"
)

// Transform applies keyword rules to md and returns a new map.
//
// Rules run in slice order and always match against the input values, so the
// output of one rule never feeds another. When two rules write the same field
// the later one wins; stores return rules in creation order.
func Transform(md types.Metadata, rules []types.TransformationRule) types.Metadata {
	result := md.Clone()

	for _, rule := range rules {
		value, ok := md[rule.SourceField]
		if !ok {
			continue
		}
		if rule.Matches(types.FormatValue(value)) {
			result[rule.EffectiveTargetField()] = rule.TargetValue
		}
	}

	return result
}

// ApplyDefaults fills fields from the camera defaults matching md's make and model.
// Existing keys are never overwritten.
func ApplyDefaults(md types.Metadata, defaults []types.DefaultValue) types.Metadata {
	result := md.Clone()

	cameraMake := strings.ToLower(strings.TrimSpace(md.String("camera_make")))
	cameraModel := strings.ToLower(strings.TrimSpace(md.String("camera_model")))
	if cameraMake == "" || cameraModel == "" {
		return result
	}

	for _, d := range defaults {
		if strings.ToLower(d.CameraMake) != cameraMake || strings.ToLower(d.CameraModel) != cameraModel {
			continue
		}
		field := strings.ToLower(d.TargetField)
		if field == "" || result.Has(field) {
			continue
		}
		result[field] = d.TargetValue
	}

	return result
}

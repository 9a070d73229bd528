package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeRule lowercases the matching fields of a rule before it is stored
func NormalizeRule(r TransformationRule) (TransformationRule, error) {
	r.SourceField = strings.ToLower(strings.TrimSpace(r.SourceField))
	r.TargetField = strings.ToLower(strings.TrimSpace(r.TargetField))
	if r.SourceField == "" {
		return r, &ValidationError{Field: "source_field", Reason: "required"}
	}
	if r.TargetField == "" {
		r.TargetField = r.SourceField
	}

	keywords := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return r, &ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	r.Keywords = keywords
	return r, nil
}

// NormalizeDefault lowercases the camera and field names of a default value
func NormalizeDefault(d DefaultValue) (DefaultValue, error) {
	d.CameraMake = strings.ToLower(strings.TrimSpace(d.CameraMake))
	d.CameraModel = strings.ToLower(strings.TrimSpace(d.CameraModel))
	d.TargetField = strings.ToLower(strings.TrimSpace(d.TargetField))

	switch {
	case d.CameraMake == "":
		return d, &ValidationError{Field: "camera_make", Reason: "required"}
	case d.CameraModel == "":
		return d, &ValidationError{Field: "camera_model", Reason: "required"}
	case d.TargetField == "":
		return d, &ValidationError{Field: "target_field", Reason: "required"}
	}
	return d, nil
}

// NormalizeSetup rewrites the ignore list and fills in the divider and trim defaults
func NormalizeSetup(s TransformationSetup) (TransformationSetup, error) {
	s.CameraMake = strings.TrimSpace(s.CameraMake)
	s.CameraModel = strings.TrimSpace(s.CameraModel)
	if s.CameraMake == "" {
		return s, &ValidationError{Field: "camera_make", Reason: "required"}
	}
	if s.CameraModel == "" {
		return s, &ValidationError{Field: "camera_model", Reason: "required"}
	}

	if s.CategoryDivider == "" {
		s.CategoryDivider = DefaultCategoryDivider
	}
	if s.CharactersToTrimFromKeywords == "" {
		s.CharactersToTrimFromKeywords = DefaultTrimCharacters
	}

	entries := ParseKeywordList(s.KeywordsToIgnore)
	for i, e := range entries {
		entries[i] = Capitalize(e)
	}
	s.KeywordsToIgnore = strings.Join(entries, ", ")
	return s, nil
}

// ParseKeywordList splits a comma separated list, dropping blank entries
func ParseKeywordList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Capitalize upper-cases the first rune and lower-cases the rest
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

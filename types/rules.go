package types

import "strings"

// Defaults applied to a TransformationSetup on save
const (
	DefaultCategoryDivider = "/"
	DefaultTrimCharacters  = "~"
)

// TransformationRule rewrites a metadata value when it matches one of the keywords
type TransformationRule struct {
	ID          int64    `json:"id" yaml:"-"`
	UserID      int64    `json:"user_id" yaml:"-"`
	SourceField string   `json:"source_field" yaml:"source_field"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	TargetValue string   `json:"target_value" yaml:"target_value"`
	TargetField string   `json:"target_field,omitempty" yaml:"target_field,omitempty"`
}

// EffectiveTargetField returns the field a match writes to
func (r TransformationRule) EffectiveTargetField() string {
	if r.TargetField == "" {
		return r.SourceField
	}
	return r.TargetField
}

// Matches reports whether value is one of the rule's keywords, ignoring case
// and surrounding whitespace
func (r TransformationRule) Matches(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, k := range r.Keywords {
		if strings.ToLower(strings.TrimSpace(k)) == value {
			return true
		}
	}
	return false
}

// DefaultValue fills a field for images taken with a given camera
type DefaultValue struct {
	ID          int64  `json:"id" yaml:"-"`
	UserID      int64  `json:"user_id" yaml:"-"`
	CameraMake  string `json:"camera_make" yaml:"camera_make"`
	CameraModel string `json:"camera_model" yaml:"camera_model"`
	TargetField string `json:"target_field" yaml:"target_field"`
	TargetValue string `json:"target_value" yaml:"target_value"`
}

// TransformationSetup holds per-camera switches for tagging and collection assignment
type TransformationSetup struct {
	ID          int64  `json:"id" yaml:"-"`
	UserID      int64  `json:"user_id" yaml:"-"`
	CameraMake  string `json:"camera_make" yaml:"camera_make"`
	CameraModel string `json:"camera_model" yaml:"camera_model"`

	ConvertCategoriesToCollections bool   `json:"convert_categories_to_collections" yaml:"convert_categories_to_collections"`
	CategoryDivider                string `json:"category_divider" yaml:"category_divider"`

	ConvertCameraMakeToTag  bool `json:"convert_camera_make_to_tag" yaml:"convert_camera_make_to_tag"`
	ConvertCameraModelToTag bool `json:"convert_camera_model_to_tag" yaml:"convert_camera_model_to_tag"`
	ConvertLensMakeToTag    bool `json:"convert_lens_make_to_tag" yaml:"convert_lens_make_to_tag"`
	ConvertLensModelToTag   bool `json:"convert_lens_model_to_tag" yaml:"convert_lens_model_to_tag"`

	CopyCaptionHeadlineToTitleIfMissing bool `json:"copy_caption_headline_to_title_if_missing" yaml:"copy_caption_headline_to_title_if_missing"`

	KeywordsToIgnore             string `json:"keywords_to_ignore" yaml:"keywords_to_ignore"`
	CharactersToTrimFromKeywords string `json:"characters_to_trim_from_keywords" yaml:"characters_to_trim_from_keywords"`
}

// Divider returns the category divider, falling back to the default
func (s *TransformationSetup) Divider() string {
	if s == nil || s.CategoryDivider == "" {
		return DefaultCategoryDivider
	}
	return s.CategoryDivider
}

// IgnoreList returns the ignored keywords as a slice
func (s *TransformationSetup) IgnoreList() []string {
	if s == nil {
		return nil
	}
	return ParseKeywordList(s.KeywordsToIgnore)
}

// TrimCharacters returns the characters removed from keywords
func (s *TransformationSetup) TrimCharacters() string {
	if s == nil {
		return ""
	}
	return s.CharactersToTrimFromKeywords
}

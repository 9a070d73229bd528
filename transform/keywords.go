package transform

import (
	"strings"

	"exifimage/types"
)

// CleanKeywords lowercases each keyword, strips every trim character, drops ignored
// or empty entries and capitalizes the rest. Order and duplicates are kept.
func CleanKeywords(keywords []string, trimChars string, ignore []string) []string {
	ignored := make(map[string]struct{}, len(ignore))
	for _, i := range ignore {
		ignored[strings.ToLower(strings.TrimSpace(i))] = struct{}{}
	}

	result := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		for _, c := range trimChars {
			keyword = strings.ReplaceAll(keyword, string(c), "")
		}
		keyword = strings.TrimSpace(keyword)

		if keyword == "" {
			continue
		}
		if _, skip := ignored[keyword]; skip {
			continue
		}
		result = append(result, types.Capitalize(keyword))
	}
	return result
}

// SplitKeywords splits a stored keyword field on commas, trimming each entry
func SplitKeywords(s string) []string {
	result := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// JoinKeywords is the inverse of SplitKeywords
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

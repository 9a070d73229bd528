package utils

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"exifimage/logging"
)

// MatchesAny reports whether the base name of path matches one of the glob patterns.
// Matching ignores case. Invalid patterns never match.
func MatchesAny(path string, patterns []string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, pattern := range patterns {
		ok, err := doublestar.Match(strings.ToLower(pattern), name)
		if err != nil {
			logging.DebugLog("Invalid pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// ValidatePatterns returns the first pattern doublestar cannot parse
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return doublestar.ErrBadPattern
		}
	}
	return nil
}

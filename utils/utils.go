package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetDefaultDatabasePath returns the default path for the database file
func GetDefaultDatabasePath() string {
	// Get the executable path
	exePath, err := os.Executable()
	if err != nil {
		// Fallback to current directory if executable path can't be determined
		return "images.db"
	}

	// Return the default database path in the same directory
	return filepath.Join(filepath.Dir(exePath), "images.db")
}

// GenerateRandomString returns a URL-safe random string of the given length
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length %d", length)
	}
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// base64 of n bytes is always longer than n characters
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// SplitCollectionPath splits a slash separated collection path into trimmed, non-empty segments
func SplitCollectionPath(path, divider string) []string {
	if divider == "" {
		divider = "/"
	}
	var segments []string
	for _, part := range strings.Split(path, divider) {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// RelativeCollectionPath turns the directory of file, relative to root, into a slash separated path.
// A file directly in root yields "".
func RelativeCollectionPath(root, file string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}

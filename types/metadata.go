package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExifDateLayout is the timestamp layout used by EXIF DateTime tags
const ExifDateLayout = "2006:01:02 15:04:05"

// RawMetadata is the tag map produced by an extractor, keyed by extractor-specific names
type RawMetadata map[string]any

// Metadata maps target field names to normalized values (string, float64 or time.Time)
type Metadata map[string]any

// Clone returns a shallow copy of the map
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String returns the value stored under key rendered as text, or "" when absent
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// Has reports whether key is present
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// FormatValue renders a metadata value as the text stored in a record field
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ParseTimestamp converts a date value into a time.Time.
// Accepts time.Time, EXIF "YYYY:MM:DD HH:MM:SS" and RFC3339 strings.
func ParseTimestamp(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{ExifDateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

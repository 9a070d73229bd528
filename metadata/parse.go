package metadata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"exifimage/types"
)

var (
	errZeroDenominator = errors.New("zero denominator")
	errMalformed       = errors.New("malformed number")
)

// ParseRational parses "A/B" into A÷B. A plain decimal is accepted as is.
func ParseRational(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMalformed
	}

	num, den, isFraction := strings.Cut(s, "/")
	if !isFraction {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errMalformed
		}
		return f, nil
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errMalformed
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, errMalformed
	}
	if d == 0 {
		return 0, errZeroDenominator
	}
	return n / d, nil
}

// ParseDate converts an EXIF "YYYY:MM:DD HH:MM:SS" string or a time.Time into a timestamp.
// RFC3339 strings are accepted too.
func ParseDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return val, &types.ParseError{Field: "date_time_original", Value: v, Err: errMalformed}
		}
		return val, nil
	case string:
		t, err := time.ParseInLocation(types.ExifDateLayout, strings.TrimSpace(val), time.Local)
		if err == nil {
			return t, nil
		}
		if t, ok := types.ParseTimestamp(val); ok {
			return t, nil
		}
		return time.Time{}, &types.ParseError{Field: "date_time_original", Value: v, Err: err}
	}
	return time.Time{}, &types.ParseError{Field: "date_time_original", Value: v, Err: fmt.Errorf("unsupported type %T", v)}
}

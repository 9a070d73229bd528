// Package metadata translates extractor tag names into record field names.
package metadata

import (
	"strings"
	"time"

	"exifimage/logging"
	"exifimage/types"
)

// Raw tag names, lowercased
const (
	TagDateTimeOriginal = "exif datetimeoriginal"
	TagFNumber          = "exif fnumber"
	TagTitle            = "title"
	TagHeadline         = "headline"
	TagObjectName       = "object name"
	TagProvinceState    = "province/state"
	TagCustom11         = "custom11"
)

// fieldMap lists the plain string tags and the field each one fills
var fieldMap = []struct {
	tag   string
	field string
}{
	{"exif exposuretime", "shutter_speed"},
	{"exif focallength", "focal_length"},
	{"exif isospeedratings", "iso_rating"},
	{"exif meteringmode", "metering_mode"},
	{"image make", "camera_make"},
	{"image model", "camera_model"},
	{"exif lensmake", "lens_make"},
	{"exif lensmodel", "lens_model"},
	{"image software", "software"},
	{"image artist", "artist"},
	{"image copyright", "copyright"},
	{"exif bodyserialnumber", "camera_serial_number"},
	{"exif lensserialnumber", "lens_serial_number"},
	{"exif lensspecification", "lens_specification"},
	{"by-line", "by_line"},
	{"caption/abstract", "caption"},
	{"category", "category"},
	{"city", "city"},
	{"copyright notice", "copyright_notice"},
	{"country/primary location code", "country_iso_location_code"},
	{"country/primary location name", "country_location_name"},
	{"credit", "credit"},
	{"custom12", "postal_code"},
	{"custom13", "country"},
	{"custom14", "phone"},
	{"custom15", "email"},
	{"custom16", "website"},
	{"custom9", "address"},
	{"headline", "headline"},
	{"keywords", "keywords"},
	{"source", "source"},
	{"special instructions", "special_instructions"},
	{"sub-location", "location"},
}

// Remap converts raw extractor output into normalized metadata.
// Values that are absent, empty or fail to parse are left out of the result.
func Remap(raw types.RawMetadata) types.Metadata {
	log := logging.Named("metadata")

	lookup := make(map[string]any, len(raw))
	for k, v := range raw {
		lookup[strings.ToLower(strings.TrimSpace(k))] = v
	}

	result := make(types.Metadata, len(fieldMap)+4)

	if v, ok := lookup[TagDateTimeOriginal]; ok {
		t, err := ParseDate(v)
		if err != nil {
			log.Debugw("dropping field", "field", "date_time_original", "error", err)
		} else {
			result["date_time_original"] = t
		}
	}

	if v, ok := lookup[TagFNumber]; ok {
		f, err := ParseRational(types.FormatValue(v))
		if err != nil {
			log.Debugw("dropping field", "field", "aperture", "error", &types.ParseError{Field: "aperture", Value: v, Err: err})
		} else {
			result["aperture"] = f
		}
	}

	for _, m := range fieldMap {
		if v, ok := lookup[m.tag]; ok {
			result[m.field] = stringValue(v)
		}
	}

	result["state"] = firstNonEmpty(lookup, TagProvinceState, TagCustom11)
	result["title"] = firstNonEmpty(lookup, TagTitle, TagHeadline, TagObjectName)
	if result["title"] == "" {
		result["title"] = types.PlaceholderTitle
	}

	for k, v := range result {
		if isFalsy(v) {
			delete(result, k)
		}
	}
	return result
}

func stringValue(v any) string {
	return strings.TrimSpace(types.FormatValue(v))
}

func firstNonEmpty(lookup map[string]any, tags ...string) string {
	for _, tag := range tags {
		if v, ok := lookup[tag]; ok {
			if s := stringValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case time.Time:
		return val.IsZero()
	}
	return false
}

package extractor

import (
	"context"
	"os"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"exifimage/logging"
	"exifimage/types"
)

// goexifTags maps goexif field names to raw metadata keys
var goexifTags = map[exif.FieldName]string{
	exif.Make:                          "Image Make",
	exif.Model:                         "Image Model",
	exif.Software:                      "Image Software",
	exif.Artist:                        "Image Artist",
	exif.Copyright:                     "Image Copyright",
	exif.ExposureTime:                  "EXIF ExposureTime",
	exif.FNumber:                       "EXIF FNumber",
	exif.FocalLength:                   "EXIF FocalLength",
	exif.ISOSpeedRatings:               "EXIF ISOSpeedRatings",
	exif.MeteringMode:                  "EXIF MeteringMode",
	exif.FieldName("LensMake"):         "EXIF LensMake",
	exif.FieldName("LensModel"):        "EXIF LensModel",
	exif.FieldName("BodySerialNumber"): "EXIF BodySerialNumber",
	exif.FieldName("LensSerialNumber"): "EXIF LensSerialNumber",
}

// GoExifExtractor reads EXIF tags in pure Go. It has no IPTC support.
type GoExifExtractor struct{}

// NewGoExifExtractor creates a GoExifExtractor
func NewGoExifExtractor() *GoExifExtractor {
	return &GoExifExtractor{}
}

// Extract implements Extractor. A file without an EXIF block yields empty metadata.
func (e *GoExifExtractor) Extract(ctx context.Context, path string) (types.RawMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.ExtractionError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	raw := make(types.RawMetadata)

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		logging.DebugLog("No EXIF data in %s: %v", path, err)
		return raw, nil
	}

	for name, key := range goexifTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		if v, ok := tagString(tag); ok && v != "" {
			raw[key] = v
		}
	}

	if t, err := x.DateTime(); err == nil {
		raw["EXIF DateTimeOriginal"] = t
	}

	return raw, nil
}

// tagString renders a tag the way the rest of the pipeline expects:
// rationals as "A/B", integers in decimal, strings as is.
func tagString(tag *tiff.Tag) (string, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		return s, err == nil
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil {
			return "", false
		}
		if den == 1 {
			return strconv.FormatInt(num, 10), true
		}
		return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10), true
	case tiff.IntVal:
		i, err := tag.Int(0)
		if err != nil {
			return "", false
		}
		return strconv.Itoa(i), true
	}
	return "", false
}

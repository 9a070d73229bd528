package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/barasher/go-exiftool"

	"exifimage/logging"
	"exifimage/types"
)

// exiftoolTags maps exiftool tag names to raw metadata keys
var exiftoolTags = map[string]string{
	"Make":                        "Image Make",
	"Model":                       "Image Model",
	"Software":                    "Image Software",
	"Artist":                      "Image Artist",
	"Copyright":                   "Image Copyright",
	"ExposureTime":                "EXIF ExposureTime",
	"FNumber":                     "EXIF FNumber",
	"FocalLength":                 "EXIF FocalLength",
	"ISO":                         "EXIF ISOSpeedRatings",
	"MeteringMode":                "EXIF MeteringMode",
	"DateTimeOriginal":            "EXIF DateTimeOriginal",
	"LensMake":                    "EXIF LensMake",
	"LensModel":                   "EXIF LensModel",
	"SerialNumber":                "EXIF BodySerialNumber",
	"LensSerialNumber":            "EXIF LensSerialNumber",
	"LensInfo":                    "EXIF LensSpecification",
	"By-line":                     "by-line",
	"Caption-Abstract":            "caption/abstract",
	"Category":                    "category",
	"City":                        "city",
	"CopyrightNotice":             "copyright notice",
	"Country-PrimaryLocationCode": "country/primary location code",
	"Country-PrimaryLocationName": "country/primary location name",
	"Credit":                      "credit",
	"Headline":                    "headline",
	"Keywords":                    "keywords",
	"ObjectName":                  "object name",
	"Province-State":              "province/state",
	"Source":                      "source",
	"SpecialInstructions":         "special instructions",
	"Sub-location":                "sub-location",
	"Title":                       "title",
}

// ExiftoolExtractor reads EXIF and IPTC tags through a long-running exiftool process
type ExiftoolExtractor struct {
	et *exiftool.Exiftool
}

// NewExiftoolExtractor starts exiftool; binaryPath may be empty to use the one on PATH
func NewExiftoolExtractor(binaryPath string) (*ExiftoolExtractor, error) {
	var opts []func(*exiftool.Exiftool) error
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	return &ExiftoolExtractor{et: et}, nil
}

// Extract implements Extractor
func (e *ExiftoolExtractor) Extract(ctx context.Context, path string) (types.RawMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.ExtractionError{Path: path, Err: err}
	}

	fileInfos := e.et.ExtractMetadata(path)
	if len(fileInfos) == 0 {
		return nil, &types.ExtractionError{Path: path, Err: fmt.Errorf("no metadata extracted")}
	}

	fileInfo := fileInfos[0]
	if fileInfo.Err != nil {
		return nil, &types.ExtractionError{Path: path, Err: fileInfo.Err}
	}

	return convertExiftoolFields(fileInfo.Fields), nil
}

// Close stops the exiftool process
func (e *ExiftoolExtractor) Close() error {
	return e.et.Close()
}

func convertExiftoolFields(fields map[string]interface{}) types.RawMetadata {
	raw := make(types.RawMetadata)
	for name, value := range fields {
		key, ok := exiftoolTags[name]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, types.FormatValue(p))
			}
			raw[key] = strings.Join(parts, ", ")
		case nil:
		default:
			raw[key] = types.FormatValue(v)
		}
	}

	logging.DebugLog("exiftool returned %d of %d known tags", len(raw), len(fields))
	return raw
}

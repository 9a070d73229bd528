// Package extractor reads raw EXIF and IPTC tags from image files.
package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"exifimage/logging"
	"exifimage/types"
)

// Extractor returns the raw tags of a file.
// Only an unreadable file is an error; missing or unparsable optional tags are skipped.
type Extractor interface {
	Extract(ctx context.Context, path string) (types.RawMetadata, error)
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(ctx context.Context, path string) (types.RawMetadata, error)

// Extract calls f
func (f ExtractorFunc) Extract(ctx context.Context, path string) (types.RawMetadata, error) {
	return f(ctx, path)
}

// Registry picks an extractor by file extension
type Registry struct {
	extractors       map[string]Extractor
	defaultExtractor Extractor
	closers          []func() error
	mutex            sync.RWMutex
}

// NewRegistry creates a registry backed by exiftool when it is available,
// falling back to the pure Go EXIF reader for JPEG and TIFF files.
func NewRegistry(exiftoolPath string) *Registry {
	r := &Registry{
		extractors: make(map[string]Extractor),
	}

	goExif := NewGoExifExtractor()
	r.defaultExtractor = goExif
	for _, ext := range []string{".jpg", ".jpeg", ".tif", ".tiff"} {
		r.RegisterExtractor(ext, goExif)
	}

	if !checkExiftoolAvailable(exiftoolPath) {
		logging.LogInfo("exiftool not found, IPTC fields will not be extracted")
		return r
	}

	et, err := NewExiftoolExtractor(exiftoolPath)
	if err != nil {
		logging.LogWarning("Failed to start exiftool: %v", err)
		return r
	}
	r.closers = append(r.closers, et.Close)
	r.defaultExtractor = et
	for _, ext := range SupportedExtensions {
		r.RegisterExtractor(ext, et)
	}
	logging.LogInfo("Registered exiftool extractor")

	return r
}

// NewStaticRegistry creates a registry that sends every file to e
func NewStaticRegistry(e Extractor) *Registry {
	return &Registry{
		extractors:       make(map[string]Extractor),
		defaultExtractor: e,
	}
}

// SupportedExtensions lists the image formats handled by exiftool
var SupportedExtensions = []string{
	".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff", ".heic",
	".cr2", ".cr3", ".nef", ".arw", ".raf", ".dng",
}

// RegisterExtractor registers an extractor for a file extension
func (r *Registry) RegisterExtractor(ext string, e Extractor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.extractors[strings.ToLower(ext)] = e
}

// GetExtractor returns the extractor for the given path
func (r *Registry) GetExtractor(path string) Extractor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if e, ok := r.extractors[strings.ToLower(filepath.Ext(path))]; ok {
		return e
	}
	return r.defaultExtractor
}

// Extract stats the file and hands it to the matching extractor
func (r *Registry) Extract(ctx context.Context, path string) (types.RawMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.ExtractionError{Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &types.ExtractionError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &types.ExtractionError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	e := r.GetExtractor(path)
	if e == nil {
		return nil, &types.ExtractionError{Path: path, Err: fmt.Errorf("no extractor registered")}
	}
	return e.Extract(ctx, path)
}

// Close stops any helper processes
func (r *Registry) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var firstErr error
	for _, c := range r.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

func checkExiftoolAvailable(path string) bool {
	if path == "" {
		path = "exiftool"
	}
	_, err := exec.LookPath(path)
	return err == nil
}

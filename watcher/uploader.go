package watcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"exifimage/extractor"
	"exifimage/pipeline"
	"exifimage/scanner"
	"exifimage/types"
	"exifimage/upload"
	"exifimage/utils"
)

// LocalUploader imports files straight into the local database
type LocalUploader struct {
	scanner *scanner.Scanner
	ownerID int64
}

// NewLocalUploader creates a LocalUploader storing images for ownerID
func NewLocalUploader(s *scanner.Scanner, ownerID int64) *LocalUploader {
	return &LocalUploader{scanner: s, ownerID: ownerID}
}

// Upload implements Uploader
func (u *LocalUploader) Upload(ctx context.Context, path, collections string) error {
	result := u.scanner.ImportFile(ctx, path, u.ownerID, pipeline.Request{
		Collections: utils.SplitCollectionPath(collections, "/"),
	})
	return result.Error
}

// HTTPUploader posts files with their extracted metadata to an upload endpoint
type HTTPUploader struct {
	client    *http.Client
	url       string
	key       string
	extractor extractor.Extractor
}

// NewHTTPUploader creates an HTTPUploader
func NewHTTPUploader(url, key string, ex extractor.Extractor) *HTTPUploader {
	return &HTTPUploader{
		client:    &http.Client{Timeout: 30 * time.Second},
		url:       url,
		key:       key,
		extractor: ex,
	}
}

// Upload implements Uploader
func (u *HTTPUploader) Upload(ctx context.Context, path, collections string) error {
	raw, err := u.extractor.Extract(ctx, path)
	if err != nil {
		return err
	}

	body, contentType, err := u.encode(path, raw, collections)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("error connecting to %s: %w", u.url, err)
	}
	defer resp.Body.Close()

	var result upload.Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return fmt.Errorf("unexpected response from %s (status %d): %w", u.url, resp.StatusCode, err)
	}
	if !result.Success {
		return fmt.Errorf("upload of %s rejected: %s %v", path, result.Reason, result.Errors)
	}
	return nil
}

func (u *HTTPUploader) encode(path string, raw types.RawMetadata, collections string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range raw {
		if err := w.WriteField(key, formField(value)); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField(upload.FieldCollections, collections); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(upload.FieldUploadKey, u.key); err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	part, err := w.CreateFormFile(upload.FieldFile, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// formField renders a raw value as a form field. Dates keep the EXIF layout
// so the server parses them like exiftool output.
func formField(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(types.ExifDateLayout)
	case *time.Time:
		if v != nil {
			return v.Format(types.ExifDateLayout)
		}
	}
	return types.FormatValue(value)
}

// Package upload accepts image files with their metadata and runs them through the pipeline.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exifimage/database"
	"exifimage/imageprocessor"
	"exifimage/logging"
	"exifimage/pipeline"
	"exifimage/types"
	"exifimage/utils"
)

// Reason codes reported in a failed Result
const (
	ReasonMissingFile       = "missing_file"
	ReasonAccessDenied      = "access_denied"
	ReasonInvalidMetadata   = "invalid_metadata"
	ReasonExtractionFailed  = "extraction_failed"
	ReasonPersistenceFailed = "persistence_failed"
)

// MaxFieldLength bounds metadata keys and values
const MaxFieldLength = 4096

// Request is one uploaded file
type Request struct {
	FileName string
	File     io.Reader
	// Metadata holds raw tag pairs sent with the file; when empty the tags are read from the file
	Metadata map[string]string
	// Collections is an optional slash separated collection path
	Collections string
	UploadKey   string
}

// Result reports the outcome of an upload
type Result struct {
	Success bool              `json:"success"`
	Reason  string            `json:"reason,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	ImageID int64             `json:"image_id,omitempty"`
}

func failed(reason string, errs map[string]string) Result {
	return Result{Success: false, Reason: reason, Errors: errs}
}

// Users resolves upload keys
type Users interface {
	UserByUploadKey(ctx context.Context, key string) (*types.User, error)
}

// Service stores uploaded files in the media directory and processes them
type Service struct {
	users         Users
	processor     *pipeline.Processor
	fingerprinter imageprocessor.Fingerprinter
	mediaDir      string
	log           *zap.SugaredLogger
}

// NewService creates a Service. A nil fingerprinter leaves dimensions and hashes empty.
func NewService(users Users, processor *pipeline.Processor, fingerprinter imageprocessor.Fingerprinter, mediaDir string) *Service {
	return &Service{
		users:         users,
		processor:     processor,
		fingerprinter: fingerprinter,
		mediaDir:      mediaDir,
		log:           logging.Named("upload"),
	}
}

var _ Users = (*database.Store)(nil)

// Upload authorizes the request, stores the file and runs the pipeline on it
func (s *Service) Upload(ctx context.Context, req Request) Result {
	user, err := s.authorize(ctx, req.UploadKey)
	if err != nil {
		s.log.Warnw("upload rejected", "error", err)
		var accessErr *types.AccessError
		if errors.As(err, &accessErr) {
			return failed(ReasonAccessDenied, nil)
		}
		return failed(ReasonPersistenceFailed, map[string]string{"upload_key": err.Error()})
	}

	if req.File == nil {
		return failed(ReasonMissingFile, nil)
	}
	if errs := validateMetadata(req.Metadata); len(errs) > 0 {
		return failed(ReasonInvalidMetadata, errs)
	}

	path, err := s.store(req)
	if err != nil {
		s.log.Errorw("cannot store upload", "file", req.FileName, "error", err)
		return failed(ReasonPersistenceFailed, map[string]string{"file": err.Error()})
	}

	rec := &types.ImageRecord{
		OwnerID:  user.ID,
		FilePath: path,
		Format:   string(imageprocessor.GetFileFormat(path)),
	}
	if s.fingerprinter != nil {
		if fp, err := s.fingerprinter.Fingerprint(ctx, path); err != nil {
			s.log.Warnw("fingerprint failed", "path", path, "error", err)
		} else {
			fp.ApplyTo(rec)
		}
	}

	pr := pipeline.Request{Collections: utils.SplitCollectionPath(req.Collections, "/")}
	if len(req.Metadata) > 0 {
		pr.Raw = make(types.RawMetadata, len(req.Metadata))
		for k, v := range req.Metadata {
			pr.Raw[k] = v
		}
	}

	if _, err := s.processor.Save(ctx, rec, pr); err != nil {
		result := failed(ReasonPersistenceFailed, map[string]string{"file": err.Error()})
		var extractionErr *types.ExtractionError
		if errors.As(err, &extractionErr) {
			result.Reason = ReasonExtractionFailed
		}
		result.ImageID = rec.ID
		return result
	}

	s.log.Infow("upload processed", "image", rec.ID, "user", user.Username, "file", req.FileName)
	return Result{Success: true, ImageID: rec.ID}
}

func (s *Service) authorize(ctx context.Context, key string) (*types.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &types.AccessError{Reason: "missing upload key"}
	}
	user, err := s.users.UserByUploadKey(ctx, key)
	if errors.Is(err, types.ErrNotFound) {
		return nil, &types.AccessError{Reason: "unknown upload key"}
	}
	return user, err
}

// store copies the upload into the media directory under a random name
func (s *Service) store(req Request) (string, error) {
	if err := os.MkdirAll(s.mediaDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.mediaDir, err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(req.FileName))
	path := filepath.Join(s.mediaDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, req.File); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func validateMetadata(md map[string]string) map[string]string {
	errs := make(map[string]string)
	for k, v := range md {
		switch {
		case strings.TrimSpace(k) == "":
			errs["metadata"] = "empty field name"
		case len(k) > MaxFieldLength:
			errs["metadata"] = "field name too long"
		case !utf8.ValidString(v):
			errs[k] = "value is not valid UTF-8"
		case len(v) > MaxFieldLength:
			errs[k] = fmt.Sprintf("value longer than %d bytes", MaxFieldLength)
		}
	}
	return errs
}

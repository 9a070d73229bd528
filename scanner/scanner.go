// Package scanner imports every image below a folder through the metadata pipeline.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"exifimage/database"
	"exifimage/imageprocessor"
	"exifimage/logging"
	"exifimage/pipeline"
	"exifimage/signalhandler"
	"exifimage/types"
	"exifimage/utils"
)

// Scanner walks folders and imports the images it finds
type Scanner struct {
	store         *database.Store
	processor     *pipeline.Processor
	fingerprinter imageprocessor.Fingerprinter
}

// New creates a Scanner. A nil fingerprinter leaves dimensions and hashes empty.
func New(store *database.Store, processor *pipeline.Processor, fingerprinter imageprocessor.Fingerprinter) *Scanner {
	return &Scanner{
		store:         store,
		processor:     processor,
		fingerprinter: fingerprinter,
	}
}

// ScanAndStoreFolder scans a folder and imports every matching image
func (s *Scanner) ScanAndStoreFolder(ctx context.Context, options ScanOptions) (*Summary, error) {
	if _, err := os.Stat(options.FolderPath); err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", options.FolderPath, err)
	}
	out := options.Output
	if out == nil {
		out = os.Stdout
	}

	var wg sync.WaitGroup
	resultsChan := make(chan ProcessImageResult, 100)
	semaphore := make(chan struct{}, signalhandler.Workers(options.MaxWorkers))

	// Count and classify files before processing
	fileStats := countFilesToProcess(options)
	PrintStartupInfo(out, fileStats, options)

	progressTracker := NewProgressTracker(fileStats, resultsChan, out)

	startTime := time.Now()
	err := s.walkAndProcessFiles(ctx, options, &wg, resultsChan, semaphore)

	// Wait for all processing to complete
	wg.Wait()
	close(resultsChan)
	progressTracker.Stop()

	elapsed := time.Since(startTime)
	PrintCompletionStats(out, progressTracker, elapsed, options)

	summary := progressTracker.Summary()
	summary.Elapsed = elapsed
	return &summary, err
}

func matchesScan(path string, options ScanOptions) bool {
	if len(options.Patterns) > 0 {
		return utils.MatchesAny(path, options.Patterns)
	}
	return imageprocessor.IsImageFile(path)
}

// countFilesToProcess counts and classifies files to be processed
func countFilesToProcess(options ScanOptions) FileStats {
	stats := FileStats{}

	if options.DebugMode {
		logging.DebugLog("Starting image scan on folder: %s", options.FolderPath)
		logging.DebugLog("Force rewrite: %v, Patterns: %v", options.ForceRewrite, options.Patterns)
	}

	_ = filepath.WalkDir(options.FolderPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if matchesScan(path, options) {
			stats.totalFiles++
			if imageprocessor.IsRawFormat(path) {
				stats.rawFiles++
			}
		}
		return nil
	})

	return stats
}

// walkAndProcessFiles traverses the directory and imports each file on the worker pool
func (s *Scanner) walkAndProcessFiles(ctx context.Context, options ScanOptions, wg *sync.WaitGroup, resultsChan chan<- ProcessImageResult, semaphore chan struct{}) error {
	return filepath.WalkDir(options.FolderPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logging.LogError("Error accessing path %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !matchesScan(path, options) {
			return nil
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(p string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			resultsChan <- s.processFile(ctx, p, options)
		}(path)

		return nil
	})
}

// processFile imports one file unless it is unchanged since its last import
func (s *Scanner) processFile(ctx context.Context, path string, options ScanOptions) ProcessImageResult {
	if !options.ForceRewrite {
		if skipResult := checkAndSkipIfUnchanged(s.store.DB(), path, options); skipResult != nil {
			skipResult.IsRaw = imageprocessor.IsRawFormat(path)
			return *skipResult
		}
	}
	return s.ImportFile(ctx, path, options.OwnerID, pipeline.Request{})
}

// ImportFile stores the file for an owner and runs the pipeline on it.
// A file that was imported before is processed again from scratch; only its
// collection is kept.
func (s *Scanner) ImportFile(ctx context.Context, path string, ownerID int64, req pipeline.Request) ProcessImageResult {
	result := ProcessImageResult{
		Path:  path,
		IsRaw: imageprocessor.IsRawFormat(path),
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		result.Error = fmt.Errorf("cannot stat file %s: %w", path, err)
		return result
	}

	rec, err := s.store.ImageByPath(ctx, ownerID, path)
	switch {
	case errors.Is(err, types.ErrNotFound):
		rec = &types.ImageRecord{OwnerID: ownerID, FilePath: path}
	case err != nil:
		result.Error = err
		return result
	default:
		// Start from an empty record so fields and tags from the previous run do not survive
		if err := s.store.ClearTags(ctx, rec.ID); err != nil {
			result.Error = err
			return result
		}
		rec = &types.ImageRecord{
			ID:           rec.ID,
			OwnerID:      rec.OwnerID,
			FilePath:     rec.FilePath,
			CreatedAt:    rec.CreatedAt,
			CollectionID: rec.CollectionID,
		}
	}

	rec.Format = string(imageprocessor.GetFileFormat(path))
	rec.Size = fileInfo.Size()
	rec.ModifiedAt = fileInfo.ModTime().Format(time.RFC3339Nano)

	if s.fingerprinter != nil {
		fp, err := s.fingerprinter.Fingerprint(ctx, path)
		if err != nil {
			result.Error = fmt.Errorf("cannot fingerprint %s: %w", path, err)
			return result
		}
		fp.ApplyTo(rec)
	}

	if _, err := s.processor.Save(ctx, rec, req); err != nil {
		result.ImageID = rec.ID
		result.Error = err
		return result
	}

	result.ImageID = rec.ID
	result.Success = true
	return result
}

package scanner

import (
	"io"
	"sync"
	"time"
)

// ScanOptions defines the options for scanning
type ScanOptions struct {
	FolderPath   string
	OwnerID      int64
	Patterns     []string // Glob patterns on the file name; empty means every known image format
	ForceRewrite bool
	DebugMode    bool
	MaxWorkers   int       // Optional worker limit
	Output       io.Writer // Progress output, stdout when nil
}

// ProcessImageResult holds the result of processing an image
type ProcessImageResult struct {
	Path    string
	Success bool
	Skipped bool
	Error   error
	IsRaw   bool
	ImageID int64
}

// Summary is returned when a scan completes
type Summary struct {
	Total     int
	Processed int
	Skipped   int
	Errors    int
	Elapsed   time.Duration
}

// FileStats tracks information about files to be processed
type FileStats struct {
	totalFiles int
	rawFiles   int
}

// ProgressTracker tracks progress of the scan operation
type ProgressTracker struct {
	processed    int
	skipped      int
	errors       int
	rawProcessed int
	rawErrors    int
	ticker       *time.Ticker
	done         chan struct{}
	finished     chan struct{}
	mu           sync.Mutex
	out          io.Writer
	totalFiles   int
	rawFiles     int
}

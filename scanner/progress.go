package scanner

import (
	"fmt"
	"io"
	"time"

	"exifimage/logging"
)

// NewProgressTracker initializes the progress tracker
func NewProgressTracker(stats FileStats, resultsChan <-chan ProcessImageResult, out io.Writer) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:     time.NewTicker(500 * time.Millisecond),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
		out:        out,
		totalFiles: stats.totalFiles,
		rawFiles:   stats.rawFiles,
	}

	// Start progress display goroutine
	go tracker.displayProgress()

	// Start result processor goroutine
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Fprintf(p.out, "\rProgress: %d/%d (Skipped: %d, Errors: %d, RAW: %d/%d)",
					p.processed, p.totalFiles, p.skipped, p.errors, p.rawProcessed, p.rawFiles)
			} else {
				fmt.Fprintf(p.out, "\rProgress: %d/%d (Skipped: %d, RAW: %d/%d)",
					p.processed, p.totalFiles, p.skipped, p.rawProcessed, p.rawFiles)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state until resultsChan is closed
func (p *ProgressTracker) processResults(resultsChan <-chan ProcessImageResult) {
	defer close(p.finished)

	for result := range resultsChan {
		p.mu.Lock()
		p.processed++

		if result.IsRaw {
			p.rawProcessed++
		}
		if result.Skipped {
			p.skipped++
		}

		if !result.Success {
			p.errors++
			if result.IsRaw {
				p.rawErrors++
			}
			if result.Error != nil {
				logging.LogImageProcessed(result.Path, false, result.Error.Error())
			}
		}

		p.mu.Unlock()
	}
}

// Stop waits for the remaining results and ends the progress display
func (p *ProgressTracker) Stop() {
	<-p.finished
	p.ticker.Stop()
	close(p.done)
}

// Summary returns the counters collected so far
func (p *ProgressTracker) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Summary{
		Total:     p.totalFiles,
		Processed: p.processed - p.skipped - p.errors,
		Skipped:   p.skipped,
		Errors:    p.errors,
	}
}

// PrintStartupInfo displays information about the scan before starting
func PrintStartupInfo(out io.Writer, stats FileStats, options ScanOptions) {
	fmt.Fprintf(out, "Starting metadata import...\nTotal image files to process: %d (including %d RAW files)\n",
		stats.totalFiles, stats.rawFiles)
	fmt.Fprintf(out, "Force rewrite mode: %v\n", options.ForceRewrite)

	if options.DebugMode {
		fmt.Fprintf(out, "Debug mode: enabled\n")
		logging.DebugLog("Found %d image files to process (%d RAW files)", stats.totalFiles, stats.rawFiles)
	}
}

// PrintCompletionStats displays statistics after scan completion
func PrintCompletionStats(out io.Writer, tracker *ProgressTracker, elapsed time.Duration, options ScanOptions) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if options.DebugMode {
		logging.DebugLog("Scan completed in %v. Processed: %d, Skipped: %d, Errors: %d, RAW files: %d, RAW errors: %d",
			elapsed, tracker.processed, tracker.skipped, tracker.errors, tracker.rawProcessed, tracker.rawErrors)
	}

	fmt.Fprintln(out, "\nImport complete.")
	fmt.Fprintf(out, "Processed %d images in %v (%d unchanged).\n", tracker.processed, elapsed.Round(time.Second), tracker.skipped)

	if tracker.rawProcessed > 0 {
		fmt.Fprintf(out, "Successfully processed %d/%d RAW image files.\n",
			tracker.rawProcessed-tracker.rawErrors, tracker.rawFiles)
	}

	if tracker.errors > 0 {
		fmt.Fprintf(out, "Encountered %d errors during import.\n", tracker.errors)
		fmt.Fprintln(out, "Check the log file for details.")
	}
}

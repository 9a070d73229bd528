package scanner

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"exifimage/database"
	"exifimage/logging"
)

// checkAndSkipIfUnchanged returns a result when the stored image is already processed and
// the file has not been modified since. A nil result means the file must be imported.
func checkAndSkipIfUnchanged(db *sql.DB, path string, options ScanOptions) *ProcessImageResult {
	exists, storedModTime, processed, err := database.CheckImageExists(db, path, options.OwnerID)
	if err != nil {
		return &ProcessImageResult{
			Path:    path,
			Success: false,
			Error:   err,
		}
	}

	if !exists || !processed {
		return nil
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return &ProcessImageResult{
			Path:    path,
			Success: false,
			Error:   fmt.Errorf("cannot stat file %s: %w", path, err),
		}
	}

	storedTime, err := time.Parse(time.RFC3339Nano, storedModTime)
	if err != nil {
		// Unknown timestamps are refreshed by importing again
		logging.DebugLog("Cannot parse stored time for %s: %v", path, err)
		return nil
	}

	if !fileInfo.ModTime().After(storedTime) {
		if options.DebugMode {
			logging.DebugLog("Skipping unchanged image: %s", path)
		}
		return &ProcessImageResult{
			Path:    path,
			Success: true,
			Skipped: true,
		}
	}

	return nil
}

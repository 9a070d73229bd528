package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exifimage/database"
	"exifimage/scanner"
	"exifimage/signalhandler"
)

var (
	scanForce    bool
	scanPatterns []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "Import every image below a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderPath := args[0]
		folderInfo, err := os.Stat(folderPath)
		if err != nil {
			return fmt.Errorf("cannot access folder path %s: %w", folderPath, err)
		}
		if !folderInfo.IsDir() {
			return fmt.Errorf("path is not a directory: %s", folderPath)
		}

		ctx, stop := signalhandler.NotifyContext(cmd.Context())
		defer stop()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.user(ctx)
		if err != nil {
			return err
		}

		summary, err := a.scanner.ScanAndStoreFolder(ctx, scanner.ScanOptions{
			FolderPath:   folderPath,
			OwnerID:      user.ID,
			Patterns:     scanPatterns,
			ForceRewrite: scanForce,
			DebugMode:    cfg.Debug,
			MaxWorkers:   cfg.Workers,
		})
		if err != nil {
			return err
		}

		stats, err := database.GetScanStats(a.db, user.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Library: %d images (%d processed), %d unique hashes, %d collections, %d tags\n",
			stats.TotalImages, stats.ProcessedImages, stats.UniqueHashes, stats.Collections, stats.Tags)

		if summary.Errors > 0 {
			return fmt.Errorf("%d of %d images failed", summary.Errors, summary.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "Process images again even when unchanged")
	scanCmd.Flags().StringSliceVar(&scanPatterns, "pattern", nil, "File name patterns to import (default: all known image formats)")
}

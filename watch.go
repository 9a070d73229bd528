package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exifimage/signalhandler"
	"exifimage/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Import new images as they appear in a folder",
	Long: `Watches a folder tree and imports every new matching file once its size has settled.
The collection is the file's directory below the watched folder. When upload_url is set
the files are posted there with the configured upload key instead of imported locally.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Watch.Folder
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return fmt.Errorf("no folder to watch: pass one or set EXIF_IMAGE_WATCHED_FOLDER")
		}

		ctx, stop := signalhandler.NotifyContext(cmd.Context())
		defer stop()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var uploader watcher.Uploader
		if cfg.Upload.URL != "" {
			uploader = watcher.NewHTTPUploader(cfg.Upload.URL, cfg.Upload.Key, a.extractors)
		} else {
			user, err := a.user(ctx)
			if err != nil {
				return err
			}
			uploader = watcher.NewLocalUploader(a.scanner, user.ID)
		}

		w, err := watcher.New(watcher.Options{
			Root:              root,
			Patterns:          cfg.Watch.Patterns,
			SettleInterval:    cfg.SettleInterval(),
			DefaultCollection: cfg.Upload.DefaultCollection,
		}, uploader)
		if err != nil {
			return err
		}

		fmt.Printf("Watching %s for new files ...\n", root)
		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

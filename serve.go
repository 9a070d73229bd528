package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"exifimage/imageprocessor"
	"exifimage/logging"
	"exifimage/signalhandler"
	"exifimage/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalhandler.NotifyContext(cmd.Context())
		defer stop()

		if err := cfg.EnsureMediaDir(); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		service := upload.NewService(a.store, a.processor, imageprocessor.NewFingerprinter(), cfg.MediaDir)
		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           upload.NewRouter(service, cfg.MaxUpload),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.LogInfo("Listening on %s", cfg.Listen)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.LogInfo("Shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

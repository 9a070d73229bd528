package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exifimage/config"
	"exifimage/logging"
)

var (
	v          = config.New()
	cfg        *config.Config
	configFile string
	username   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exifimage",
	Short: "Import photos and enrich their EXIF and IPTC metadata with per-user rules",
	Long: `exifimage extracts EXIF and IPTC metadata from photos, applies per-camera
defaults and keyword rules, and stores the images with tags and collections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v, configFile); err != nil {
			return err
		}
		if err := logging.SetupLogger(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to setup logging: %v\n", err)
		}
		logging.SetDebug(cfg.Debug)
		if cfg.Debug {
			logging.DebugLog("Using database %s", cfg.Database)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.CloseLogger()
		fatal("Error", err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("database", v.GetString("database"), "Path to the SQLite database")
	flags.Bool("debug", false, "Enable debug output")
	flags.String("logfile", v.GetString("log_file"), "Path to the log file")
	flags.StringVar(&username, "user", "admin", "User owning imported images and rules")

	_ = v.BindPFlag("database", flags.Lookup("database"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("log_file", flags.Lookup("logfile"))
}

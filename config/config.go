package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"exifimage/utils"
)

// EnvPrefix is prepended to every environment variable the application reads
const EnvPrefix = "EXIF_IMAGE"

// Config holds the resolved application settings
type Config struct {
	Database  string
	LogFile   string
	Debug     bool
	MediaDir  string
	Listen    string
	Workers   int
	Exiftool  string
	MaxUpload int64
	Watch     WatchConfig
	Upload    UploadConfig
}

// WatchConfig configures the folder watcher
type WatchConfig struct {
	Folder         string
	Patterns       []string
	SettleInterval time.Duration
}

// UploadConfig configures where the watcher sends files
type UploadConfig struct {
	URL               string
	DefaultCollection string
	Key               string
}

// New returns a viper instance with every default registered and environment lookup enabled
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("database", utils.GetDefaultDatabasePath())
	v.SetDefault("log_file", "exifimage.log")
	v.SetDefault("debug", false)
	v.SetDefault("media_dir", "./media")
	v.SetDefault("listen", ":8080")
	v.SetDefault("workers", 0)
	v.SetDefault("exiftool_path", "")
	v.SetDefault("max_upload_size", 50*1024*1024) // 50MB
	v.SetDefault("watched_folder", "")
	v.SetDefault("watch_patterns", "*.jpg,*.jpeg,*.png,*.webp")
	v.SetDefault("settle_interval", 2*time.Second)
	v.SetDefault("upload_url", "")
	v.SetDefault("upload_default_collection", "")
	v.SetDefault("upload_key", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and resolves the settings
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Database:  v.GetString("database"),
		LogFile:   v.GetString("log_file"),
		Debug:     v.GetBool("debug"),
		MediaDir:  v.GetString("media_dir"),
		Listen:    v.GetString("listen"),
		Workers:   v.GetInt("workers"),
		Exiftool:  v.GetString("exiftool_path"),
		MaxUpload: v.GetInt64("max_upload_size"),
		Watch: WatchConfig{
			Folder:         v.GetString("watched_folder"),
			Patterns:       splitList(v.GetString("watch_patterns")),
			SettleInterval: v.GetDuration("settle_interval"),
		},
		Upload: UploadConfig{
			URL:               v.GetString("upload_url"),
			DefaultCollection: v.GetString("upload_default_collection"),
			Key:               v.GetString("upload_key"),
		},
	}

	if cfg.SettleInterval() <= 0 {
		cfg.Watch.SettleInterval = 2 * time.Second
	}

	return cfg, nil
}

// SettleInterval returns how long the watcher waits between size checks
func (c *Config) SettleInterval() time.Duration {
	return c.Watch.SettleInterval
}

// EnsureMediaDir creates the media directory if needed
func (c *Config) EnsureMediaDir() error {
	if err := os.MkdirAll(c.MediaDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.MediaDir, err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

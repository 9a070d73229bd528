package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "exifimage.log", cfg.LogFile)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUpload)
	assert.Equal(t, []string{"*.jpg", "*.jpeg", "*.png", "*.webp"}, cfg.Watch.Patterns)
	assert.Equal(t, 2*time.Second, cfg.SettleInterval())
	assert.False(t, cfg.Debug)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("EXIF_IMAGE_LISTEN", ":9000")
	t.Setenv("EXIF_IMAGE_WATCH_PATTERNS", "*.JPG, *.tif")
	t.Setenv("EXIF_IMAGE_SETTLE_INTERVAL", "500ms")
	t.Setenv("EXIF_IMAGE_DEBUG", "true")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, []string{"*.JPG", "*.tif"}, cfg.Watch.Patterns)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleInterval())
	assert.True(t, cfg.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exifimage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("media_dir: /srv/media\nupload_default_collection: Inbox\n"), 0644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/media", cfg.MediaDir)
	assert.Equal(t, "Inbox", cfg.Upload.DefaultCollection)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

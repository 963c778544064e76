package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentops/content-tracker/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONTENT_LIBRARY_PATH", "CONTENT_INDEX_PATH", "CONTENT_TYPES", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, "./content_library", cfg.LibraryPath)
	assert.Equal(t, "./data/content_index.db", cfg.IndexPath)
	assert.Equal(t, config.DefaultContentTypes, cfg.ContentTypes)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, 200, cfg.MaxPageSize)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONTENT_LIBRARY_PATH", "/srv/library")
	t.Setenv("CONTENT_TYPES", "blog, webinar ,")
	t.Setenv("MAX_PAGE_SIZE", "25")
	t.Setenv("DEBUG", "true")

	cfg := config.Load()
	assert.Equal(t, "/srv/library", cfg.LibraryPath)
	assert.Equal(t, []string{"blog", "webinar"}, cfg.ContentTypes)
	assert.Equal(t, 25, cfg.MaxPageSize)
	assert.True(t, cfg.Debug)
}

func TestLoad_IgnoresBadNumbers(t *testing.T) {
	t.Setenv("MAX_PAGE_SIZE", "lots")
	cfg := config.Load()
	assert.Equal(t, 200, cfg.MaxPageSize)
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := config.Config{
		LibraryPath:  filepath.Join(root, "library"),
		IndexPath:    filepath.Join(root, "data", "index.db"),
		ContentTypes: []string{"blog", "video"},
	}

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{
		filepath.Join(root, "library", "blog"),
		filepath.Join(root, "library", "video"),
		filepath.Join(root, "data"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

// Package config loads process configuration from the environment once at
// startup. Components receive the resulting struct by injection; there is
// no ambient global.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultContentTypes is the baseline set of content-type subdirectories.
// The library may grow additional types at runtime; this list only seeds
// directory creation and the id-lookup fallback.
var DefaultContentTypes = []string{
	"blog", "video", "podcast", "social", "research", "content-plans", "website-content",
}

// Config holds all process settings.
type Config struct {
	// LibraryPath is the root of the markdown content library.
	LibraryPath string
	// IndexPath is the SQLite index database file.
	IndexPath string
	// ContentTypes seeds the per-type subdirectories under LibraryPath.
	ContentTypes []string

	DefaultPageSize int
	MaxPageSize     int

	Debug bool
}

// Load reads configuration from the environment, with an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LibraryPath:     getEnv("CONTENT_LIBRARY_PATH", "./content_library"),
		IndexPath:       getEnv("CONTENT_INDEX_PATH", "./data/content_index.db"),
		ContentTypes:    splitCSV(getEnv("CONTENT_TYPES", strings.Join(DefaultContentTypes, ","))),
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 50),
		MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 200),
		Debug:           getEnvBool("DEBUG", false),
	}
}

// EnsureDirectories creates the library root, the per-type subdirectories
// and the parent directory of the index file.
func (c Config) EnsureDirectories() error {
	for _, contentType := range c.ContentTypes {
		dir := filepath.Join(c.LibraryPath, contentType)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create content directory %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(c.IndexPath), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

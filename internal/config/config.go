// Package config resolves runtime settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the trainer's runtime settings.
type Config struct {
	// DBPath is the SQLite file backing the dataset record and history.
	DBPath string
	// RedisURL, when set, stores the dataset record in Redis instead of SQLite.
	RedisURL string
	// CatalogDir, when set, replaces the bundled seed catalog.
	CatalogDir string
	ExportDir  string
	Lang       string
	STTEnabled bool
	// STTCommand and CaptureCommand are whitespace-separated command lines.
	STTCommand     string
	CaptureCommand string
	LogUseCases    bool
}

// DefaultConfig returns settings rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		DBPath:     filepath.Join(home, ".speaktrainer", "speaktrainer.db"),
		ExportDir:  filepath.Join(home, ".speaktrainer", "exports"),
		Lang:       "en-US",
		STTEnabled: true,
	}
}

// Load reads envFiles (".env" when none are given; missing files are
// ignored) and then applies SPEAKTRAINER_* variables over the defaults.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := DefaultConfig(home)

	if v := os.Getenv("SPEAKTRAINER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SPEAKTRAINER_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("SPEAKTRAINER_CATALOG"); v != "" {
		cfg.CatalogDir = v
	}
	if v := os.Getenv("SPEAKTRAINER_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("SPEAKTRAINER_LANG"); v != "" {
		cfg.Lang = v
	}
	if v := os.Getenv("SPEAKTRAINER_STT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.STTEnabled = b
		}
	}
	cfg.STTCommand = os.Getenv("SPEAKTRAINER_STT_CMD")
	cfg.CaptureCommand = os.Getenv("SPEAKTRAINER_CAPTURE_CMD")
	if v := os.Getenv("SPEAKTRAINER_LOG"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	return cfg, nil
}

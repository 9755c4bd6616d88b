package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	DBPath          string
	HTTPAddr        string
	LogLevel        string
	LogFile         string
	WebhookURL      string
	WebhookTimeout  time.Duration
	RollupWeighting string
}

// DefaultConfig returns a Config with sensible defaults. DBPath is empty
// until Load resolves the home directory.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		WebhookTimeout:  5000 * time.Millisecond,
		RollupWeighting: "mean",
	}
}

// Load reads an optional .env file and then GROUNDWORK_* variables,
// falling back to defaults for any unset values. Variables already set in
// the environment win over the .env file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := DefaultConfig()

	if v := os.Getenv("GROUNDWORK_DB"); v != "" {
		cfg.DBPath = v
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".groundwork", "groundwork.db")
	}
	if v := os.Getenv("GROUNDWORK_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("GROUNDWORK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.LogFile = os.Getenv("GROUNDWORK_LOG_FILE")
	cfg.WebhookURL = os.Getenv("GROUNDWORK_WEBHOOK_URL")
	if v := os.Getenv("GROUNDWORK_WEBHOOK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WebhookTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("GROUNDWORK_ROLLUP_WEIGHTING"); v != "" {
		cfg.RollupWeighting = strings.ToLower(v)
	}

	return cfg, nil
}

// WebhookEnabled reports whether events should be forwarded over HTTP.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

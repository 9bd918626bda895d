package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration for the insight server.
// Values are resolved in three layers: built-in defaults, then the
// JSON config file (if present), then environment variables (a .env
// file is honored by the entrypoint).
type Config struct {
	Addr           string `json:"addr,omitempty"`             // HTTP listen address
	UploadDir      string `json:"upload_dir,omitempty"`       // directory uploaded datasets are stored in
	DBPath         string `json:"db_path,omitempty"`          // sqlite database for chat history
	IndexPath      string `json:"index_path,omitempty"`       // bleve index for conversation search
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"` // per-request upload cap
	MaxSteps       int    `json:"max_steps,omitempty"`        // agent step budget per question
}

const (
	defaultAddr           = ":8080"
	defaultUploadDir      = "uploads"
	defaultDBPath         = "insightd.db"
	defaultIndexPath      = "insightd.bleve"
	defaultMaxUploadBytes = 50 << 20 // 50 MB
	defaultMaxSteps       = 15
)

func defaults() *Config {
	return &Config{
		Addr:           defaultAddr,
		UploadDir:      defaultUploadDir,
		DBPath:         defaultDBPath,
		IndexPath:      defaultIndexPath,
		MaxUploadBytes: defaultMaxUploadBytes,
		MaxSteps:       defaultMaxSteps,
	}
}

// Load resolves the full configuration: defaults, overlaid with the
// config file if one exists, overlaid with environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	mgr, err := NewManager()
	if err != nil {
		return nil, err
	}
	if mgr.Exists() {
		if err := mgr.Load(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone, falling
// back to defaults for anything unset. The config file is ignored.
func FromEnv() (*Config, error) {
	cfg := defaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Addr = getenv("INSIGHTD_ADDR", c.Addr)
	c.UploadDir = getenv("INSIGHTD_UPLOAD_DIR", c.UploadDir)
	c.DBPath = getenv("INSIGHTD_DB_PATH", c.DBPath)
	c.IndexPath = getenv("INSIGHTD_INDEX_PATH", c.IndexPath)

	if v := os.Getenv("INSIGHTD_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid INSIGHTD_MAX_UPLOAD_BYTES: %q", v)
		}
		c.MaxUploadBytes = n
	}

	if v := os.Getenv("INSIGHTD_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid INSIGHTD_MAX_STEPS: %q", v)
		}
		c.MaxSteps = n
	}

	return nil
}

// EnsureDirs creates the directories the server writes into.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

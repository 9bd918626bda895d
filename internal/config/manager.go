package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manager handles loading and saving the JSON config file.
type Manager struct {
	configPath string
}

// NewManager creates a configuration manager. INSIGHTD_CONFIG selects
// an explicit file; otherwise the file lives under the user config dir.
func NewManager() (*Manager, error) {
	if path := os.Getenv("INSIGHTD_CONFIG"); path != "" {
		return &Manager{configPath: path}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{
		configPath: filepath.Join(configDir, "insightd", "config.json"),
	}, nil
}

// GetConfigPath returns the absolute path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// Load reads the config file into cfg, leaving fields the file does
// not set untouched. A missing file is not an error.
func (m *Manager) Load(cfg *Config) error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config json: %w", err)
	}
	return nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.configPath)
	return !os.IsNotExist(err)
}

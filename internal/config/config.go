// Package config loads the user's configuration from ~/.plank/config.yaml.
// A missing file is not an error; every field has a default.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	KeyMappings KeyMappings `yaml:"key_mappings"`
	Theme       Theme       `yaml:"theme"`
	Board       Board       `yaml:"board"`
}

// Board holds board-related settings.
type Board struct {
	// NewStageColor is the color assigned to stages created without an
	// explicit one.
	NewStageColor string `yaml:"new_stage_color"`
}

// Load loads config from ~/.plank/config.yaml (or $PLANK_HOME/config.yaml).
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		config := defaultConfig()
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save writes the config to ~/.plank/config.yaml, creating the directory if
// needed.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file. PLANK_HOME overrides
// the default ~/.plank directory.
func getConfigPath() (string, error) {
	if plankHome := os.Getenv("PLANK_HOME"); plankHome != "" {
		return filepath.Join(plankHome, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".plank", "config.yaml"), nil
}

func defaultConfig() *Config {
	config := &Config{
		KeyMappings: DefaultKeyMappings(),
		Theme:       DefaultTheme(),
		Board:       Board{NewStageColor: defaultNewStageColor},
	}
	return config
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	c.KeyMappings.applyDefaults()
	c.Theme.applyDefaults()
	if c.Board.NewStageColor == "" {
		c.Board.NewStageColor = defaultNewStageColor
	}
}

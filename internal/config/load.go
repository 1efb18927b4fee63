package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a mapgw configuration file, applies environment overrides and
// fills in defaults. The result is not validated; call Validate.
func Load(path string) (*FileConfig, error) {
	var cfg FileConfig

	// Clean the path to prevent directory traversal attacks
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - Config file path is trusted (from admin/user)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadFromEnv builds a configuration from environment variables and defaults only.
func LoadFromEnv() (*FileConfig, error) {
	cfg := &FileConfig{}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("load from env: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadOrEnv loads path when it is non-empty and falls back to LoadFromEnv.
func LoadOrEnv(path string) (*FileConfig, error) {
	if path == "" {
		return LoadFromEnv()
	}
	return Load(path)
}

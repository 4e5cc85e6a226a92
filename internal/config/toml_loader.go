package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// TomlConfigLoader discovers and loads .clumpscan.toml
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads the nearest .clumpscan.toml found by walking up from
// startDir, or the defaults when there is none.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile loads one TOML configuration file
func (l *TomlConfigLoader) LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

// FindConfigFile walks up the directory tree to find .clumpscan.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

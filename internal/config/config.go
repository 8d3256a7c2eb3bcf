// Package config loads the optional whdiag configuration file. With no file
// present the built-in check configuration applies, so a plain invocation
// stays fully self-contained.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"whdiag/internal/diagnose"
	"whdiag/pkg/models"
)

// EnvConfigFile overrides the config file location when set.
const EnvConfigFile = "WHDIAG_CONFIG"

func GetConfigPath() string {
	if configPath := os.Getenv(EnvConfigFile); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".whdiag")
}

func GetConfigFile() string {
	if configFile := os.Getenv(EnvConfigFile); configFile != "" {
		cleaned, err := cleanPath(configFile)
		if err != nil {
			// Fall back to default if invalid
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the config file if it exists and fills in defaults for
// anything left unset. A missing file is not an error.
func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := cleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	var config models.Config
	if _, err := os.Stat(cleanedPath); err == nil {
		data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyDefaults(&config)
	return &config, nil
}

// Save writes the config file, creating the config directory if needed.
func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

func applyDefaults(config *models.Config) {
	if config.Schema == "" {
		config.Schema = diagnose.DefaultSchema
	}
	if len(config.Tables) == 0 {
		config.Tables = diagnose.DefaultTables()
	}
}

// cleanPath rejects traversal sequences and resolves the path absolute.
func cleanPath(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("path contains directory traversal")
	}
	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}
	return cleaned, nil
}

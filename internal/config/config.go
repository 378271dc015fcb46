// Package config provides configuration loading for dicomgate. It loads
// from a YAML file and falls back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Server parameters
	Server struct {
		// ListenAddr is the HTTP listen address
		ListenAddr string `yaml:"listenAddr"`

		// MaxUploadBytes caps the size of a single uploaded file
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
	} `yaml:"server"`

	// Storage parameters
	Storage struct {
		// UploadDir is where stored files live
		UploadDir string `yaml:"uploadDir"`
	} `yaml:"storage"`

	// Preview rendering parameters
	Preview struct {
		// MaxDimension bounds the longer edge of rendered previews;
		// zero disables downscaling
		MaxDimension int `yaml:"maxDimension"`

		// WindowCenter is the default window center when a file
		// carries none and the request does not override it
		WindowCenter float64 `yaml:"windowCenter"`

		// WindowWidth is the matching default window width
		WindowWidth float64 `yaml:"windowWidth"`
	} `yaml:"preview"`

	// Logging parameters
	Logging struct {
		// Level is the minimum level emitted (debug, info, warn, error)
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.ListenAddr = ":8080"
	cfg.Server.MaxUploadBytes = 256 << 20

	cfg.Storage.UploadDir = "uploads"

	cfg.Preview.MaxDimension = 1024
	cfg.Preview.WindowCenter = 40.0
	cfg.Preview.WindowWidth = 400.0

	cfg.Logging.Level = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

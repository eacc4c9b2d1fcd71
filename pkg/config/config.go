/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/coincidence/pkg/logging"
	"github.com/ssargent/coincidence/pkg/report"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the ioc configuration
type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Server   Server   `yaml:"server"`
	History  History  `yaml:"history"`
	Logging  Logging  `yaml:"logging"`
}

// Analysis holds the defaults used when no mode flag is given
type Analysis struct {
	Mode   string `yaml:"mode"`
	Format string `yaml:"format"`
}

// Server contains the HTTP service configuration
type Server struct {
	Bind   string `yaml:"bind"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// History controls where analyses are recorded
type History struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: Analysis{
			Mode:   "ic",
			Format: "text",
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		History: History{
			Enabled: false,
			Dir:     GetDefaultHistoryDir(),
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every enumerated setting is known
func (c *Config) Validate() error {
	if _, err := report.ParseMode(c.Analysis.Mode); err != nil {
		return fmt.Errorf("%w: analysis.mode: %v", ErrInvalidConfig, err)
	}
	if _, err := report.ParseFormat(c.Analysis.Format); err != nil {
		return fmt.Errorf("%w: analysis.format: %v", ErrInvalidConfig, err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.History.Enabled && c.History.Dir == "" {
		return fmt.Errorf("%w: history.dir is required when history is enabled", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("%w: logging.format: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and
// history enabled, and saves it to configPath
func BootstrapConfig(configPath string, historyDir string) (*Config, error) {
	config := DefaultConfig()
	if historyDir != "" {
		config.History.Dir = historyDir
	}
	config.History.Enabled = true

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./ioc.yaml"
	}
	return filepath.Join(homeDir, ".config", "ioc", "config.yaml")
}

// GetDefaultHistoryDir returns the default history database directory
func GetDefaultHistoryDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "ioc", "history")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./history"
	}
	return filepath.Join(homeDir, ".local", "share", "ioc", "history")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/harbourwatch/scheduler/pkg/core/model"
)

// OrgSettings are the organisational policy flags handed to the engine on
// every call.
type OrgSettings struct {
	AutoConfirmRSVP bool   `yaml:"autoConfirmRsvp"`
	SchedulingMode  string `yaml:"schedulingMode" validate:"required,oneof=open managed"`
	AllowPastShifts bool   `yaml:"allowPastShifts,omitempty"`
}

// GmailConfig configures the Gmail-backed notification dispatcher.
// When absent, events are logged instead of mailed.
type GmailConfig struct {
	Sender string            `yaml:"sender" validate:"required,email"`
	Users  map[string]string `yaml:"users,omitempty" validate:"omitempty,dive,email"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string       `yaml:"databaseUrl" validate:"required"`
	Org         OrgSettings  `yaml:"org" validate:"required"`
	Gmail       *GmailConfig `yaml:"gmail,omitempty" validate:"omitempty"`
}

// Settings converts the configured org policy into the engine's per-call value
func (c *Config) Settings() model.Settings {
	return model.Settings{
		AutoConfirmRSVP: c.Org.AutoConfirmRSVP,
		SchedulingMode:  model.SchedulingMode(c.Org.SchedulingMode),
		AllowPastShifts: c.Org.AllowPastShifts,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from scheduler_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for scheduler_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "scheduler_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

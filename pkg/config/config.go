// Package config loads shopfront configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/shopfront/pkg/logging"
	"github.com/Veraticus/shopfront/pkg/notification"
)

// Config holds all configuration for shopfront
type Config struct {
	Notification NotificationConfig `yaml:"notification"`
	Scroll       ScrollConfig       `yaml:"scroll"`
	Contact      ContactConfig      `yaml:"contact"`
	Log          LogConfig          `yaml:"log"`

	// Quiet disables terminal rendering of toasts.
	Quiet bool `yaml:"quiet" env:"SHOPFRONT_QUIET"`
}

// NotificationConfig holds toast timing and colours
type NotificationConfig struct {
	notification.Timings `yaml:",inline"`

	// Theme entries override the default presentation per kind.
	Theme notification.Theme `yaml:"theme"`
}

// ScrollConfig holds scroll handling settings
type ScrollConfig struct {
	Debounce        time.Duration `yaml:"debounce" env:"SHOPFRONT_SCROLL_DEBOUNCE"`
	NavbarThreshold int           `yaml:"navbar_threshold"`
	ViewportHeight  int           `yaml:"viewport_height"`
}

// ContactConfig holds contact form settings
type ContactConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxMessages int           `yaml:"max_messages"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" env:"SHOPFRONT_LOG_LEVEL"`
	File  string `yaml:"file" env:"SHOPFRONT_LOG_FILE"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Notification: NotificationConfig{
			Timings: notification.DefaultTimings(),
		},
		Scroll: ScrollConfig{
			Debounce:        10 * time.Millisecond,
			NavbarThreshold: 100,
			ViewportHeight:  800,
		},
		Contact: ContactConfig{
			RateLimit: RateLimitConfig{
				Window:      1 * time.Minute,
				MaxMessages: 3,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Theme returns the default theme with configured overrides applied.
func (c *Config) Theme() notification.Theme {
	return notification.DefaultTheme().Merge(c.Notification.Theme)
}

// Load loads configuration from the default path and environment
func Load() (*Config, error) {
	// A .env file is optional
	_ = godotenv.Load()

	return LoadFrom(Path())
}

// LoadFrom loads configuration from path (if it exists) and environment
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path
func Path() string {
	if path := os.Getenv("SHOPFRONT_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "shopfront", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "shopfront", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var, flag or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if level := os.Getenv("SHOPFRONT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if file := os.Getenv("SHOPFRONT_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	if d := os.Getenv("SHOPFRONT_DISPLAY_DURATION"); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid SHOPFRONT_DISPLAY_DURATION: %w", err)
		}
		cfg.Notification.DisplayDuration = parsed
	}

	if d := os.Getenv("SHOPFRONT_SCROLL_DEBOUNCE"); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid SHOPFRONT_SCROLL_DEBOUNCE: %w", err)
		}
		cfg.Scroll.Debounce = parsed
	}

	if quiet := os.Getenv("SHOPFRONT_QUIET"); quiet != "" {
		switch quiet {
		case "true", "1", "yes":
			cfg.Quiet = true
		case "false", "0", "no":
			cfg.Quiet = false
		default:
			return fmt.Errorf("invalid SHOPFRONT_QUIET value: %q (use true/false)", quiet)
		}
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	n := cfg.Notification
	if n.EnterDelay < 0 || n.DisplayDuration < 0 || n.ExitDuration < 0 {
		return fmt.Errorf("notification durations must be non-negative")
	}

	if cfg.Scroll.Debounce < 0 {
		return fmt.Errorf("scroll.debounce must be non-negative")
	}

	if cfg.Scroll.ViewportHeight <= 0 {
		return fmt.Errorf("scroll.viewport_height must be positive")
	}

	if cfg.Contact.RateLimit.MaxMessages < 0 {
		return fmt.Errorf("contact.rate_limit.max_messages must be non-negative")
	}

	if cfg.Contact.RateLimit.Window < 0 {
		return fmt.Errorf("contact.rate_limit.window must be non-negative")
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Config represents the global ~/.knock/config.toml.
type Config struct {
	DefaultProfile string    `toml:"default_profile"`
	Storage        Storage   `toml:"storage"`
	Reveal         Reveal    `toml:"reveal"`
	Scheduler      Scheduler `toml:"scheduler"`
	Links          Links     `toml:"links"`
	Contacts       Contacts  `toml:"contacts"`
}

type Storage struct {
	Backend string `toml:"backend"`
}

type Reveal struct {
	TapThreshold   int `toml:"tap_threshold"`
	DismissAfterMS int `toml:"dismiss_after_ms"`
}

// DismissAfter returns the auto-dismiss delay.
func (r Reveal) DismissAfter() time.Duration {
	return time.Duration(r.DismissAfterMS) * time.Millisecond
}

type Scheduler struct {
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// PollInterval returns how often the loopback transport checks for due triggers.
func (s Scheduler) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

type Links struct {
	Scheme string `toml:"scheme"`
}

type Contacts struct {
	DefaultCountryCode string `toml:"default_country_code"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProfile: "main",
		Storage:        Storage{Backend: BackendSQLite},
		Reveal:         Reveal{TapThreshold: 3, DismissAfterMS: 3000},
		Scheduler:      Scheduler{PollIntervalMS: 500},
		Links:          Links{Scheme: "knockavatar"},
		Contacts:       Contacts{DefaultCountryCode: "33"},
	}
}

// Load reads config from the given path on top of Default.
// Returns nil and an error if the file is missing or invalid.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendDiskv:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Reveal.TapThreshold < 1 {
		return fmt.Errorf("reveal.tap_threshold must be at least 1, got %d", c.Reveal.TapThreshold)
	}
	if c.Reveal.DismissAfterMS < 0 {
		return fmt.Errorf("reveal.dismiss_after_ms must not be negative")
	}
	if c.Scheduler.PollIntervalMS <= 0 {
		return fmt.Errorf("scheduler.poll_interval_ms must be positive")
	}
	if c.Links.Scheme == "" {
		return fmt.Errorf("links.scheme is required")
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Package config loads scraper settings from an optional YAML file layered
// over built-in defaults. Every field has a working default; a config file
// only needs the keys it wants to change.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the scrape pipeline.
type Config struct {
	// CalendarURL is the public calendar listing page.
	CalendarURL string `yaml:"calendar_url"`
	// ManageURL is the authenticated manage-calendar view used for
	// timeline reconciliation.
	ManageURL string `yaml:"manage_url"`
	// DefaultTimezone labels events whose pages expose no zone.
	DefaultTimezone string `yaml:"default_timezone"`

	// DataDir holds the persisted dataset and bookkeeping files.
	DataDir string `yaml:"data_dir"`
	// EventsFile is the dataset filename inside DataDir.
	EventsFile string `yaml:"events_file"`

	// RequestDelay is the fixed pause between event-page visits. This is
	// rate-limit avoidance, not tuning; shrinking it risks getting the
	// scraper blocked.
	RequestDelay time.Duration `yaml:"request_delay"`
	// NavTimeout bounds a single page navigation.
	NavTimeout time.Duration `yaml:"nav_timeout"`
	// SelectorTimeout bounds best-effort waits for page elements.
	SelectorTimeout time.Duration `yaml:"selector_timeout"`
	// ScrollLimit caps the auto-scroll distance in pixels when coaxing
	// lazy-loaded calendar entries.
	ScrollLimit int `yaml:"scroll_limit"`

	// ChromePath overrides Chrome executable discovery.
	ChromePath string `yaml:"chrome_path"`
	// Headless controls whether the browser runs headless.
	Headless bool `yaml:"headless"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CalendarURL:     "https://lu.ma/DEVxNetwork",
		ManageURL:       "https://luma.com/calendar/manage/cal-XOMDXT4v9EMe4yb",
		DefaultTimezone: "America/Los_Angeles",
		DataDir:         "~/.local/share/devx-events",
		EventsFile:      "events.json",
		RequestDelay:    500 * time.Millisecond,
		NavTimeout:      30 * time.Second,
		SelectorTimeout: 10 * time.Second,
		ScrollLimit:     5000,
		Headless:        true,
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged; a missing file is an error (the operator asked for a file that
// is not there).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.CalendarURL == "" {
		return errors.New("calendar_url must not be empty")
	}
	if c.EventsFile == "" {
		return errors.New("events_file must not be empty")
	}
	if c.RequestDelay < 0 {
		return errors.New("request_delay must not be negative")
	}
	if c.NavTimeout <= 0 {
		return errors.New("nav_timeout must be positive")
	}
	if c.ScrollLimit <= 0 {
		return errors.New("scroll_limit must be positive")
	}
	return nil
}

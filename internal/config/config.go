// Package config loads fix-tags run settings from an optional YAML file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"
	"github.com/pfrederiksen/fix-tags/internal/logger"
	"github.com/pfrederiksen/fix-tags/internal/scraper"
	"github.com/pfrederiksen/fix-tags/internal/storage"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoVersions is returned when the version list is empty.
	ErrNoVersions = zerr.New("no versions configured")

	// ErrInvalidBaseURL is returned when the base URL lacks a single %s
	// placeholder. Other percent sequences, such as %20, are allowed.
	ErrInvalidBaseURL = zerr.New("base URL must contain exactly one %s placeholder")

	// ErrNegativeTimeout is returned for a timeout below zero.
	ErrNegativeTimeout = zerr.New("timeout must not be negative")
)

// Config holds the settings for a scrape run
type Config struct {
	Versions  []string      `yaml:"versions"`
	OutputDir string        `yaml:"output_dir"`
	Format    string        `yaml:"format"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	DB        string        `yaml:"db"`
	LogLevel  string        `yaml:"log_level"`
}

// Default returns the settings that reproduce a plain run with no file or flags
func Default() *Config {
	return &Config{
		Versions:  append([]string(nil), dictionary.DefaultVersions...),
		OutputDir: storage.DefaultDir,
		Format:    string(storage.FormatJSON),
		BaseURL:   scraper.DefaultBaseURL,
		UserAgent: scraper.UserAgent,
		LogLevel:  "info",
	}
}

// Load reads path and overlays its values on Default(). Keys absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// Validate checks the settings for values the run cannot use
func (c *Config) Validate() error {
	if len(c.Versions) == 0 {
		return ErrNoVersions
	}
	for _, v := range c.Versions {
		if strings.TrimSpace(v) == "" {
			return zerr.With(ErrNoVersions, "reason", "blank version")
		}
	}
	if _, err := storage.ParseFormat(c.Format); err != nil {
		return zerr.With(zerr.Wrap(err, "invalid format"), "format", c.Format)
	}
	if strings.Count(c.BaseURL, "%s") != 1 {
		return zerr.With(ErrInvalidBaseURL, "base_url", c.BaseURL)
	}
	if c.Timeout < 0 {
		return zerr.With(ErrNegativeTimeout, "timeout", c.Timeout.String())
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid log level"), "log_level", c.LogLevel)
		}
	}
	return nil
}

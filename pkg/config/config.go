// Package config loads the TOML settings shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/pelletier/go-toml"

	"github.com/jpfielding/pixcloak.go/pkg/codec"
	"github.com/jpfielding/pixcloak.go/pkg/transform"
)

// Config is the full settings file
type Config struct {
	Method  string  `toml:"method" default:"add"`
	Key     int     `toml:"key" default:"10"`
	Workers int     `toml:"workers" default:"1"`
	Preview Preview `toml:"preview"`
	Output  Output  `toml:"output"`
	Log     Log     `toml:"log"`
}

// Preview bounds the thumbnail rendered for display
type Preview struct {
	MaxWidth  int `toml:"max_width" default:"750"`
	MaxHeight int `toml:"max_height" default:"400"`
}

// Output controls how results are written when the path gives no hint
type Output struct {
	Format      string `toml:"format" default:"png"`
	JPEGQuality int    `toml:"jpeg_quality" default:"95"`
}

// Log configures the process logger
type Log struct {
	Level      string `toml:"level" default:"INFO"`
	JSON       bool   `toml:"json"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" default:"10"`
	MaxBackups int    `toml:"max_backups" default:"3"`
	MaxAgeDays int    `toml:"max_age_days" default:"28"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// tags are static; a failure here is a programming error
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return cfg
}

// Parse decodes TOML over Default() and validates. Explicit zero values in the
// file are kept, so key = 0 is rejected rather than defaulted.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path; an empty path yields Default()
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// MethodValue resolves the configured method name
func (c *Config) MethodValue() (transform.Method, error) {
	return transform.ParseMethod(c.Method)
}

// Validate checks ranges. The key is only checked for keyed methods.
func (c *Config) Validate() error {
	var errs []error
	m, err := c.MethodValue()
	if err != nil {
		errs = append(errs, err)
	} else if err := transform.ValidateKey(m, c.Key); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers must be >= 0, got %d", c.Workers))
	}
	if c.Preview.MaxWidth < 1 || c.Preview.MaxHeight < 1 {
		errs = append(errs, fmt.Errorf("config: preview bounds must be positive, got %dx%d", c.Preview.MaxWidth, c.Preview.MaxHeight))
	}
	if _, err := codec.ForName(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("config: jpeg_quality must be in [1,100], got %d", c.Output.JPEGQuality))
	}
	return errors.Join(errs...)
}

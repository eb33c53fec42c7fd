// Package config loads the YAML configuration for the fuzzdex CLI and
// maps it onto search options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/fuzzdex/pkg/types"
)

// Config holds the fuzzdex CLI configuration.
type Config struct {
	Data    string        `yaml:"data"` // JSON records file
	Search  SearchConfig  `yaml:"search"`
	Keys    []KeyConfig   `yaml:"keys"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig holds matcher settings. Pointer fields distinguish an
// explicit zero from an omitted one; omitted fields take the engine
// defaults.
type SearchConfig struct {
	CaseSensitive      bool     `yaml:"case_sensitive"`
	IgnoreDiacritics   bool     `yaml:"ignore_diacritics"`
	Location           int      `yaml:"location"`
	Distance           *int     `yaml:"distance"`  // default: 100
	Threshold          *float64 `yaml:"threshold"` // default: 0.6
	IgnoreLocation     bool     `yaml:"ignore_location"`
	FindAllMatches     bool     `yaml:"find_all_matches"`
	MinMatchCharLength int      `yaml:"min_match_char_length"` // default: 1
	IgnoreFieldNorm    bool     `yaml:"ignore_field_norm"`
}

// KeyConfig declares one searchable key.
type KeyConfig struct {
	Name   string  `yaml:"name"` // dotted path, e.g. author.name
	Weight float64 `yaml:"weight"`
}

// OutputConfig holds result formatting settings.
type OutputConfig struct {
	IncludeScore   bool  `yaml:"include_score"`
	IncludeMatches bool  `yaml:"include_matches"`
	Sort           *bool `yaml:"sort"`  // default: true
	Limit          int   `yaml:"limit"` // 0 = unlimited
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// Load reads a YAML configuration file, expanding ${VAR} and
// ${VAR:-default} references against the environment first.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnv(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	for i := range c.Keys {
		if c.Keys[i].Weight == 0 {
			c.Keys[i].Weight = 1
		}
	}
}

// Validate checks the configuration for correctness. Option-level
// bounds are enforced again by the engine; this catches what the engine
// cannot express, plus obvious file-level mistakes.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Search.Threshold != nil && (*c.Search.Threshold < 0 || *c.Search.Threshold > 1) {
		return fmt.Errorf("search.threshold must be between 0 and 1, got %v", *c.Search.Threshold)
	}
	if c.Search.Distance != nil && *c.Search.Distance < 0 {
		return fmt.Errorf("search.distance must be non-negative, got %d", *c.Search.Distance)
	}
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit must be non-negative, got %d", c.Output.Limit)
	}
	for i, k := range c.Keys {
		if strings.TrimSpace(k.Name) == "" {
			return fmt.Errorf("keys[%d].name is required", i)
		}
		if k.Weight < 0 {
			return fmt.Errorf("keys[%d].weight must be non-negative, got %v", i, k.Weight)
		}
	}
	return nil
}

// Options maps the file configuration onto engine options.
func (c *Config) Options() types.Options {
	opts := types.Default()
	opts.IsCaseSensitive = c.Search.CaseSensitive
	opts.IgnoreDiacritics = c.Search.IgnoreDiacritics
	opts.Location = c.Search.Location
	if c.Search.Distance != nil {
		opts.Distance = *c.Search.Distance
	}
	if c.Search.Threshold != nil {
		opts.Threshold = *c.Search.Threshold
	}
	opts.IgnoreLocation = c.Search.IgnoreLocation
	opts.FindAllMatches = c.Search.FindAllMatches
	if c.Search.MinMatchCharLength > 0 {
		opts.MinMatchCharLength = c.Search.MinMatchCharLength
	}
	opts.IgnoreFieldNorm = c.Search.IgnoreFieldNorm
	opts.IncludeScore = c.Output.IncludeScore
	opts.IncludeMatches = c.Output.IncludeMatches
	if c.Output.Sort != nil {
		opts.ShouldSort = *c.Output.Sort
	}
	for _, k := range c.Keys {
		opts.Keys = append(opts.Keys, types.KeySpec{Name: k.Name, Weight: k.Weight})
	}
	return opts
}

// envRef matches ${VAR} and ${VAR:-default}. Bare $VAR is left alone so
// literal dollar signs in config values survive.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnv substitutes environment references in the raw file. An
// unset or empty variable falls back to its inline default, or to the
// empty string when none is given.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		groups := envRef.FindSubmatch(ref)
		if val := os.Getenv(string(groups[1])); val != "" {
			return []byte(val)
		}
		return groups[2]
	})
}

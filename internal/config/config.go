// Package config assembles runtime settings from defaults, an optional
// YAML file, LEETFETCH_-prefixed environment variables, and command
// line flags, in that order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "LEETFETCH_"

// Config holds everything the pipeline needs besides credentials.
type Config struct {
	DataDir string        `koanf:"data_dir" validate:"required"`
	Output  string        `koanf:"output" validate:"required"`
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
	Limit   int           `koanf:"limit" validate:"gte=0"`
}

// DatabasePath is the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "data.db")
}

// Load merges all configuration sources over the built-in defaults and
// validates the result. The flag set is expected to define config,
// data-dir, output and limit.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flag keys use dashes; config keys use underscores.
	if err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
		return strings.ReplaceAll(key, "-", "_"), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := Config{
		BaseURL: "https://leetcode.com",
		Timeout: 30 * time.Second,
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

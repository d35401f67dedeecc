// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package config loads console configuration from the XDG config file,
// overlaid by command-line flags, and validates the result against the
// generated JSON Schema.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/tokoadmin/tokoadmin/internal/gate"
	"github.com/tokoadmin/tokoadmin/internal/xdg"
)

// APIConfig addresses the backend.
type APIConfig struct {
	Root           string `koanf:"root" json:"root" jsonschema:"required"`
	TimeoutSeconds int    `koanf:"timeout_seconds" json:"timeout_seconds" jsonschema:"minimum=1"`
}

// GateConfig controls which navigation targets require a session.
type GateConfig struct {
	ProtectedPrefixes []string `koanf:"protected_prefixes" json:"protected_prefixes"`
	LoginPath         string   `koanf:"login_path" json:"login_path"`
	HomePath          string   `koanf:"home_path" json:"home_path"`
}

// SessionConfig controls session credential persistence.
type SessionConfig struct {
	File     string `koanf:"file" json:"file"`
	TTLHours int    `koanf:"ttl_hours" json:"ttl_hours" jsonschema:"minimum=1"`
}

// LogConfig controls console logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format" jsonschema:"enum=json,enum=text"`
}

// Config is the full console configuration.
type Config struct {
	API     APIConfig     `koanf:"api" json:"api" jsonschema:"required"`
	Gate    GateConfig    `koanf:"gate" json:"gate"`
	Session SessionConfig `koanf:"session" json:"session"`
	Log     LogConfig     `koanf:"log" json:"log"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Root:           "http://localhost:8000",
			TimeoutSeconds: 10,
		},
		Gate: GateConfig{
			ProtectedPrefixes: gate.DefaultProtectedPrefixes(),
			LoginPath:         gate.DefaultLoginPath,
			HomePath:          "/",
		},
		Session: SessionConfig{
			File:     xdg.SessionFile(),
			TTLHours: 24,
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML config
// file (when present), then flag overrides. The merged result is validated
// against the generated JSON Schema before being returned.
// path may be empty, in which case the default XDG location is used; a
// missing file at the default location is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = xdg.ConfigFile()
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").
				Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	} else if explicit {
		return nil, oops.In("config").
			Code("CONFIG_NOT_FOUND").
			With("path", path).
			Wrap(err)
	}

	if flags != nil {
		// Only flags the user actually set participate in the overlay;
		// unset flags must not clobber file values with empty defaults.
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.In("config").
				Code("CONFIG_FLAGS_FAILED").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.In("config").
			Code("CONFIG_UNMARSHAL_FAILED").
			Wrap(err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the generated JSON Schema.
func Validate(cfg *Config) error {
	if cfg == nil {
		return oops.In("config").Code("CONFIG_NIL").Errorf("config cannot be nil")
	}
	return validateAgainstSchema(cfg)
}

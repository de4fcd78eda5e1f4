// Package config loads cockpit's configuration.
//
// Precedence, lowest to highest: built-in defaults, the TOML file at
// ~/.config/cockpit/config.toml, then COCKPIT_* environment variables.
// Command line flags are applied by the caller on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "cockpit"

// Config carries everything the binary needs to wire the client together.
type Config struct {
	APIBaseURL     string        // CashPilot API server
	StateDir       string        // session slots and log file
	RequestTimeout time.Duration // bound on every API request
}

type tomlConfig struct {
	APIBaseURL     string `toml:"api_base_url"`
	StateDir       string `toml:"state_dir"`
	RequestTimeout string `toml:"request_timeout"` // time.ParseDuration syntax
}

// Defaults returns the built-in configuration.
func Defaults() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	return Config{
		APIBaseURL:     "http://localhost:8000",
		StateDir:       filepath.Join(home, ".config", appName, "state"),
		RequestTimeout: 30 * time.Second,
	}, nil
}

// Load resolves configuration from the default config file location.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	return LoadFile(filepath.Join(home, ".config", appName, "config.toml"))
}

// LoadFile resolves configuration using the TOML file at path. A missing
// file is not an error; a malformed one is.
func LoadFile(path string) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(path); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(path, &tc); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if tc.APIBaseURL != "" {
			cfg.APIBaseURL = tc.APIBaseURL
		}
		if tc.StateDir != "" {
			cfg.StateDir = tc.StateDir
		}
		if tc.RequestTimeout != "" {
			d, err := time.ParseDuration(tc.RequestTimeout)
			if err != nil {
				return Config{}, fmt.Errorf("parse request_timeout in %s: %w", path, err)
			}
			cfg.RequestTimeout = d
		}
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv("COCKPIT_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("COCKPIT_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("COCKPIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse COCKPIT_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}

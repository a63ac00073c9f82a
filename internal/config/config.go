// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists the sarkar-tui configuration.
//
// Configuration lives at ~/.sarkar/config.toml and can be overridden by
// environment variables (SARKAR_SERVER_URL, SARKAR_THEME, SARKAR_CONFIG).
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// Config is the root configuration for the client.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
}

// ServerConfig describes the backend the client talks to.
type ServerConfig struct {
	// URL is the base URL of the chat backend, e.g. "http://localhost:5000".
	URL string `toml:"url"`
	// TimeoutSecs is the request timeout for non-streaming calls.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// Markdown toggles markdown rendering of assistant messages.
	// User messages are always rendered as plain text regardless.
	Markdown bool `toml:"markdown"`
	// DisplayName is the name shown for the local user.
	DisplayName string `toml:"display_name"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:5000",
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults so the TUI can always start.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = DefaultConfig()
		}
		globalConfig = cfg
	})
	return globalConfig
}

// Load reads the config file and applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := Path()
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location, honoring SARKAR_CONFIG.
func Path() string {
	if p := os.Getenv("SARKAR_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".sarkar", "config.toml")
}

// StateDir returns the directory for client-local state files.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sarkar"
	}
	return filepath.Join(home, ".sarkar")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SARKAR_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("SARKAR_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.Server.URL)
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = 30
	}
	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q (want auto, dark or light)", c.UI.Theme)
	}
	return nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:5000", cfg.Server.URL)
	assert.Equal(t, 30, cfg.Server.TimeoutSecs)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.UI.Markdown)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
url = "http://example.com:8080"
timeout_secs = 10

[ui]
theme = "dark"
markdown = false
display_name = "Tester"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("SARKAR_CONFIG", path)
	t.Setenv("SARKAR_SERVER_URL", "")
	t.Setenv("SARKAR_THEME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080", cfg.Server.URL)
	assert.Equal(t, 10, cfg.Server.TimeoutSecs)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, "Tester", cfg.UI.DisplayName)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SARKAR_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("SARKAR_SERVER_URL", "http://override:9000")
	t.Setenv("SARKAR_THEME", "light")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Server.URL)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.UI.Theme = "sepia"
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("SARKAR_CONFIG", path)
	t.Setenv("SARKAR_SERVER_URL", "")
	t.Setenv("SARKAR_THEME", "")

	cfg := DefaultConfig()
	cfg.UI.DisplayName = "Roundtrip"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Roundtrip", loaded.UI.DisplayName)
}

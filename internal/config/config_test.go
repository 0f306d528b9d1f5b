package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://canvas.example.com/\ntoken: tok123\n"), 0o600))
	t.Setenv("CANVAS_SAK_CONFIG", path)
	t.Setenv("CANVAS_URL", "")
	t.Setenv("CANVAS_ACCESS_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.example.com", cfg.URL, "trailing slash should be trimmed")
	assert.Equal(t, "tok123", cfg.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://file.example.com\ntoken: filetok\n"), 0o600))
	t.Setenv("CANVAS_SAK_CONFIG", path)
	t.Setenv("CANVAS_URL", "https://env.example.com")
	t.Setenv("CANVAS_ACCESS_TOKEN", "envtok")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, "envtok", cfg.Token)
}

func TestLoad_MissingValues(t *testing.T) {
	t.Setenv("CANVAS_SAK_CONFIG", filepath.Join(t.TempDir(), "nonexistent.yaml"))
	t.Setenv("CANVAS_URL", "")
	t.Setenv("CANVAS_ACCESS_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CANVAS_URL")
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	t.Setenv("CANVAS_SAK_CONFIG", path)

	got, err := WriteTemplate()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	// Template must round-trip through Load once env is clear.
	t.Setenv("CANVAS_URL", "")
	t.Setenv("CANVAS_ACCESS_TOKEN", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.URL)
	assert.NotEmpty(t, cfg.Token)

	_, err = WriteTemplate()
	require.Error(t, err, "refuses to overwrite")
}

// Package config loads canvas-sak settings: the Canvas base URL and
// access token.
//
// Lookup order: $CANVAS_SAK_CONFIG if set, otherwise
// ~/.config/canvas-sak/config.yaml. The CANVAS_URL and
// CANVAS_ACCESS_TOKEN environment variables override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds everything the commands need to reach Canvas.
type Config struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Path returns the config file location, honoring CANVAS_SAK_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("CANVAS_SAK_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "canvas-sak", "config.yaml"), nil
}

// Load reads the config file (if present) and applies environment
// overrides. A missing file is not an error; missing required values
// are.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if _, statErr := os.Stat(path); statErr == nil {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		cfg.URL = v.GetString("url")
		cfg.Token = v.GetString("token")
	}

	if env := os.Getenv("CANVAS_URL"); env != "" {
		cfg.URL = env
	}
	if env := os.Getenv("CANVAS_ACCESS_TOKEN"); env != "" {
		cfg.Token = env
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("no Canvas URL configured; set url in %s or export CANVAS_URL", path)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("no Canvas access token configured; set token in %s or export CANVAS_ACCESS_TOKEN", path)
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return cfg, nil
}

// template seeds a new config file. Keeping it as a struct and
// marshaling guarantees the output stays parseable.
var template = Config{
	URL:   "https://your-institution.instructure.com",
	Token: "paste-your-access-token-here",
}

// WriteTemplate creates a starter config file at the default path. It
// refuses to overwrite an existing file.
func WriteTemplate() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(template)
	if err != nil {
		return "", err
	}
	// 0600: the file will hold an API token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Package config holds the CLI client settings: defaults, then an optional
// JSON file. cmd/cli overlays its own flags on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/proofolio/proofolio/internal/timex"
)

// Config holds runtime settings for the proofolio CLI.
//
// Fields:
//   - ServerURL: base URL of the proofolio server.
//   - Timeout: per-request timeout, uploads included.
//   - DownloadDir: directory under the working directory for downloaded proofs.
type Config struct {
	ServerURL   string
	Timeout     time.Duration
	DownloadDir string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 30 * time.Second
	c.DownloadDir = "downloads"
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.DownloadDir, validation.Required),
	)
}

// JsonConfig is the on-disk shape of the client config file.
type JsonConfig struct {
	ServerURL   string         `json:"server_url"`
	Timeout     timex.Duration `json:"timeout"`
	DownloadDir string         `json:"download_dir"`
}

// Load returns the defaults overlaid with the JSON file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{
		ServerURL:   cfg.ServerURL,
		Timeout:     timex.Duration{Duration: cfg.Timeout},
		DownloadDir: cfg.DownloadDir,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.Timeout = jc.Timeout.Duration
	cfg.DownloadDir = jc.DownloadDir
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/proofolio/proofolio/internal/flagx"
	"github.com/proofolio/proofolio/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "10m" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	SessionTTL       timex.Duration `json:"session_ttl"`
	Environment      string         `json:"environment"`
	LogLevel         string         `json:"log_level"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3UsePathStyle   bool           `json:"s3_use_path_style"`
	UploadGrantTTL   timex.Duration `json:"upload_grant_ttl"`
	DownloadGrantTTL timex.Duration `json:"download_grant_ttl"`
	SweepInterval    timex.Duration `json:"sweep_interval"`
	SweepGrace       timex.Duration `json:"sweep_grace"`
}

// parseJson overlays the file named by -c/-config (or PROOFOLIO_CONFIG) on
// config. Keys missing from the file keep their current value.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args, envPrefix+"CONFIG")
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionTTL = c.SessionTTL.Duration
	config.Environment = c.Environment
	config.LogLevel = c.LogLevel
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3UsePathStyle = c.S3UsePathStyle
	config.UploadGrantTTL = c.UploadGrantTTL.Duration
	config.DownloadGrantTTL = c.DownloadGrantTTL.Duration
	config.SweepInterval = c.SweepInterval.Duration
	config.SweepGrace = c.SweepGrace.Duration
	return nil
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:         c.HTTPAddr,
		DatabaseDSN:      c.DatabaseDSN,
		SecretKey:        c.SecretKey,
		SessionTTL:       timex.Duration{Duration: c.SessionTTL},
		Environment:      c.Environment,
		LogLevel:         c.LogLevel,
		S3AccessKey:      c.S3AccessKey,
		S3SecretKey:      c.S3SecretKey,
		S3Bucket:         c.S3Bucket,
		S3Region:         c.S3Region,
		S3BaseEndpoint:   c.S3BaseEndpoint,
		S3UsePathStyle:   c.S3UsePathStyle,
		UploadGrantTTL:   timex.Duration{Duration: c.UploadGrantTTL},
		DownloadGrantTTL: timex.Duration{Duration: c.DownloadGrantTTL},
		SweepInterval:    timex.Duration{Duration: c.SweepInterval},
		SweepGrace:       timex.Duration{Duration: c.SweepGrace},
	}
}

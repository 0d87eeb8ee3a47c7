package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "PROOFOLIO_"

// parseEnv overlays PROOFOLIO_* variables. cmd/server loads a .env file into
// the process environment before this runs.
func parseEnv(config *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("ENV", &config.Environment)
	str("LOG_LEVEL", &config.LogLevel)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv(envPrefix + "S3_PATH_STYLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sS3_PATH_STYLE: %w", envPrefix, err)
		}
		config.S3UsePathStyle = b
	}

	for name, dst := range map[string]*time.Duration{
		"SESSION_TTL":        &config.SessionTTL,
		"UPLOAD_GRANT_TTL":   &config.UploadGrantTTL,
		"DOWNLOAD_GRANT_TTL": &config.DownloadGrantTTL,
		"SWEEP_INTERVAL":     &config.SweepInterval,
		"SWEEP_GRACE":        &config.SweepGrace,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	return nil
}

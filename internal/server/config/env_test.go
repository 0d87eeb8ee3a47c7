package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("PROOFOLIO_HTTP_ADDR", ":7070")
	t.Setenv("PROOFOLIO_SECRET_KEY", "from-env-secret")
	t.Setenv("PROOFOLIO_ENV", "production")
	t.Setenv("PROOFOLIO_S3_PATH_STYLE", "false")
	t.Setenv("PROOFOLIO_SESSION_TTL", "12h")
	t.Setenv("PROOFOLIO_SWEEP_INTERVAL", "0s")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "from-env-secret", cfg.SecretKey)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.S3UsePathStyle)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.SweepInterval)
	assert.Equal(t, "proofs", cfg.S3Bucket)
}

func TestParseEnv_BadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("PROOFOLIO_UPLOAD_GRANT_TTL", "soon")
		err := parseEnv(&Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PROOFOLIO_UPLOAD_GRANT_TTL")
	})

	t.Run("bool", func(t *testing.T) {
		t.Setenv("PROOFOLIO_S3_PATH_STYLE", "sometimes")
		require.Error(t, parseEnv(&Config{}))
	})
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{"http_addr": ":1000", "log_level": "warn"})
	t.Setenv("PROOFOLIO_HTTP_ADDR", ":2000")

	cfg, err := load([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)
	assert.Equal(t, ":2000", cfg.HTTPAddr, "env beats json")
	assert.Equal(t, "debug", cfg.LogLevel, "flags beat json")

	_, err = load([]string{"-m", "staging"})
	require.Error(t, err, "validation runs last")
}

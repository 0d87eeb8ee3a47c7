package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := &Config{ServerURL: "http://127.0.0.1:8080", Timeout: 30 * time.Second, DownloadDir: "downloads"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"https://proofolio.example.com","timeout":"5s"}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := &Config{ServerURL: "https://proofolio.example.com", Timeout: 5 * time.Second, DownloadDir: "downloads"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.ServerURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg.LoadDefaults()
	cfg.Timeout = time.Millisecond
	assert.Error(t, cfg.Validate())
}

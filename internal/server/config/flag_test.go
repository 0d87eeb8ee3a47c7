package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret-key", "-t", "24h", "-m", "production",
				"-l", "debug", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1",
				"-e", "http://endpoint", "-i", "5m",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:9090",
				DatabaseDSN:    "db",
				SecretKey:      "secret-key",
				SessionTTL:     24 * time.Hour,
				Environment:    "production",
				LogLevel:       "debug",
				S3AccessKey:    "user",
				S3SecretKey:    "password",
				S3Bucket:       "bucket",
				S3Region:       "us-west-1",
				S3BaseEndpoint: "http://endpoint",
				SweepInterval:  5 * time.Minute,
			},
		},
		{
			name:     "config flag is left to the json layer",
			args:     []string{"-c", "conf.json", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"},
		},
		{
			name:      "bad duration",
			args:      []string{"-t", "a week"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

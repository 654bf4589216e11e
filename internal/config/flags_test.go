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
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "credentials and storage",
			args: []string{"-p", "proj", "-s", "secret", "-scope", "sync", "-d", "postgres://db", "-ttl", "5"},
			expected: &Config{
				ProjectID: "proj", ProjectSecret: "secret",
				StorageScope: "sync", PostgresDSN: "postgres://db",
				CacheTTL: 5 * time.Minute,
			},
		},
		{
			name:     "equals form and unknown flags ignored",
			args:     []string{"--k=extensionDeviceId", "-zzz", "1", "-x", "img-"},
			expected: &Config{StorageKey: "extensionDeviceId", DevicePrefix: "img-"},
		},
		{
			name:        "non-numeric ttl",
			args:        []string{"-ttl", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_TTLUntouchedWhenAbsent(t *testing.T) {
	cfg := &Config{CacheTTL: 90 * time.Second}
	parseFlags(cfg, []string{"-p", "x"})
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

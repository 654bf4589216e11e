package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://revenue.ezboti.com/api/v1/server", c.BaseURL)
	assert.Equal(t, "paywall_vip", c.PaywallAlias)
	assert.Equal(t, "ezrevenueDeviceId", c.StorageKey)
	assert.Equal(t, ScopeLocal, c.StorageScope)
	assert.Equal(t, BackendPostgres, c.SyncBackend)
	assert.Equal(t, "ezrevenue.db", c.SQLitePath)
	assert.Equal(t, 30*time.Minute, c.CacheTTL)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoArgsKeepsDefaults(t *testing.T) {
	cfg := load(nil)

	require.NotNil(t, cfg)
	assert.Equal(t, "paywall_vip", cfg.PaywallAlias)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.ProjectID = "p"
	c.ProjectSecret = "s"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults plus credentials", mutate: func(c *Config) {}},
		{name: "memory scope", mutate: func(c *Config) { c.StorageScope = ScopeMemory }},
		{name: "missing project id", mutate: func(c *Config) { c.ProjectID = "" }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.ProjectSecret = "" }, wantErr: true},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "missing storage key", mutate: func(c *Config) { c.StorageKey = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }, wantErr: true},
		{name: "unknown scope", mutate: func(c *Config) { c.StorageScope = "cloud" }, wantErr: true},
		{name: "sync postgres without dsn", mutate: func(c *Config) { c.StorageScope = ScopeSync }, wantErr: true},
		{name: "sync postgres with dsn", mutate: func(c *Config) {
			c.StorageScope = ScopeSync
			c.PostgresDSN = "postgres://localhost/db"
		}},
		{name: "sync s3 without bucket", mutate: func(c *Config) {
			c.StorageScope = ScopeSync
			c.SyncBackend = BackendS3
		}, wantErr: true},
		{name: "sync s3 with bucket", mutate: func(c *Config) {
			c.StorageScope = ScopeSync
			c.SyncBackend = BackendS3
			c.S3Bucket = "devices"
		}},
		{name: "sync unknown backend", mutate: func(c *Config) {
			c.StorageScope = ScopeSync
			c.SyncBackend = "redis"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

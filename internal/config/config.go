package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
)

// Storage scopes. "local" keeps the device id on this machine, "sync" keeps it
// in a backend shared by every machine of the user, "memory" forgets it on exit.
const (
	ScopeLocal  = "local"
	ScopeSync   = "sync"
	ScopeMemory = "memory"
)

// Sync backends.
const (
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds runtime settings of the entitlement client.
//
// Units: CacheTTL and TokenTTL are time.Duration values.
type Config struct {
	BaseURL       string
	ProjectID     string
	ProjectSecret string
	PaywallAlias  string

	StorageKey   string
	DevicePrefix string
	StorageScope string
	SyncBackend  string
	SQLitePath   string
	PostgresDSN  string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string

	CacheTTL time.Duration
	TokenTTL time.Duration

	LogLevel string
}

// LoadDefaults populates c with defaults matching the hosted entitlement service.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://revenue.ezboti.com/api/v1/server"
	c.PaywallAlias = "paywall_vip"
	c.StorageKey = "ezrevenueDeviceId"
	c.StorageScope = ScopeLocal
	c.SyncBackend = BackendPostgres
	c.SQLitePath = "ezrevenue.db"
	c.S3Region = "us-east-1"
	c.S3Prefix = "devices/"
	c.CacheTTL = 30 * time.Minute
	c.TokenTTL = 30 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// Validate reports settings the client cannot run without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base url is empty", common.ErrInvalidConfig)
	}
	if c.ProjectID == "" {
		return fmt.Errorf("%w: project id is empty", common.ErrInvalidConfig)
	}
	if c.ProjectSecret == "" {
		return fmt.Errorf("%w: project secret is empty", common.ErrInvalidConfig)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("%w: storage key is empty", common.ErrInvalidConfig)
	}
	if c.CacheTTL <= 0 || c.TokenTTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive", common.ErrInvalidConfig)
	}

	switch c.StorageScope {
	case ScopeLocal, ScopeMemory:
	case ScopeSync:
		switch c.SyncBackend {
		case BackendPostgres:
			if c.PostgresDSN == "" {
				return fmt.Errorf("%w: postgres dsn is empty", common.ErrInvalidConfig)
			}
		case BackendS3:
			if c.S3Bucket == "" {
				return fmt.Errorf("%w: s3 bucket is empty", common.ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown sync backend %q", common.ErrInvalidConfig, c.SyncBackend)
		}
	default:
		return fmt.Errorf("%w: unknown storage scope %q", common.ErrInvalidConfig, c.StorageScope)
	}
	return nil
}

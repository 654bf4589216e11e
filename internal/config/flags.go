package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/flagx"
)

// parseFlags populates Config fields from command-line flags (see package doc).
// Only the flags defined here are parsed; everything else on the command line
// is left for other consumers. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the entitlement service")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.ProjectSecret, "s", cfg.ProjectSecret, "project secret")
	fs.StringVar(&cfg.PaywallAlias, "w", cfg.PaywallAlias, "paywall alias")
	fs.StringVar(&cfg.StorageKey, "k", cfg.StorageKey, "storage key of the device id")
	fs.StringVar(&cfg.DevicePrefix, "x", cfg.DevicePrefix, "device id prefix")
	fs.StringVar(&cfg.StorageScope, "scope", cfg.StorageScope, "storage scope: local | sync | memory")
	fs.StringVar(&cfg.SyncBackend, "sync-backend", cfg.SyncBackend, "sync backend: postgres | s3")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "SQLite file for the local scope")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "Postgres DSN for the sync scope")
	fs.StringVar(&cfg.S3Bucket, "bucket", cfg.S3Bucket, "S3 bucket for the sync scope")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	cacheTTL := fs.Int("ttl", int(cfg.CacheTTL.Minutes()), "entitlement cache TTL (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "ttl" {
			cfg.CacheTTL = time.Duration(*cacheTTL) * time.Minute
		}
	})
}

// Package config loads runtime configuration for the entitlement client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-u string             base URL of the entitlement service
//	-p string             project id
//	-s string             project secret
//	-w string             paywall alias
//	-k string             storage key of the device id
//	-x string             device id prefix
//	-scope string         storage scope: local | sync | memory
//	-sync-backend string  sync backend: postgres | s3
//	-db string            SQLite file for the local scope
//	-d string             Postgres DSN for the sync scope
//	-bucket string        S3 bucket for the sync scope
//	-ttl int              entitlement cache TTL (minutes)
//	-l string             log level: debug | info | warn | error
//
// # JSON schema
//
// Durations use timex.Duration, so "30m" and integer nanoseconds both work:
//
//	{
//	  "base_url": "https://revenue.ezboti.com/api/v1/server",
//	  "project_id": "p_123",
//	  "project_secret": "...",
//	  "storage_scope": "sync",
//	  "sync_backend": "s3",
//	  "s3": {"bucket": "devices", "region": "us-east-1"},
//	  "cache_ttl": "30m"
//	}
//
// Fields absent from the JSON keep their previous value.
package config

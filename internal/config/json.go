package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ezrevenue/internal/flagx"
	"github.com/dmitrijs2005/ezrevenue/internal/timex"
)

type jsonS3 struct {
	Bucket       string `json:"bucket"`
	Region       string `json:"region"`
	BaseEndpoint string `json:"base_endpoint"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	Prefix       string `json:"prefix"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	BaseURL       string          `json:"base_url"`
	ProjectID     string          `json:"project_id"`
	ProjectSecret string          `json:"project_secret"`
	PaywallAlias  string          `json:"paywall_alias"`
	StorageKey    string          `json:"storage_key"`
	DevicePrefix  string          `json:"device_prefix"`
	StorageScope  string          `json:"storage_scope"`
	SyncBackend   string          `json:"sync_backend"`
	SQLitePath    string          `json:"sqlite_path"`
	PostgresDSN   string          `json:"postgres_dsn"`
	S3            jsonS3          `json:"s3"`
	CacheTTL      *timex.Duration `json:"cache_ttl"`
	TokenTTL      *timex.Duration `json:"token_ttl"`
	LogLevel      string          `json:"log_level"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
// Read or unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.BaseURL, jc.BaseURL)
	overlay(&cfg.ProjectID, jc.ProjectID)
	overlay(&cfg.ProjectSecret, jc.ProjectSecret)
	overlay(&cfg.PaywallAlias, jc.PaywallAlias)
	overlay(&cfg.StorageKey, jc.StorageKey)
	overlay(&cfg.DevicePrefix, jc.DevicePrefix)
	overlay(&cfg.StorageScope, jc.StorageScope)
	overlay(&cfg.SyncBackend, jc.SyncBackend)
	overlay(&cfg.SQLitePath, jc.SQLitePath)
	overlay(&cfg.PostgresDSN, jc.PostgresDSN)
	overlay(&cfg.S3Bucket, jc.S3.Bucket)
	overlay(&cfg.S3Region, jc.S3.Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3.BaseEndpoint)
	overlay(&cfg.S3AccessKey, jc.S3.AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3.SecretKey)
	overlay(&cfg.S3Prefix, jc.S3.Prefix)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
}

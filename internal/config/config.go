// Package config loads service settings by layering defaults, an optional
// YAML file, and HIKO_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	// DOC API connection. BaseURL and APIKey are required secrets; a missing
	// value is a deployment defect and fails startup.
	DocBaseURL  string        `koanf:"doc_base_url"`
	DocAPIKey   string        `koanf:"doc_api_key"`
	DocPageSize int           `koanf:"doc_page_size"`
	DocTimeout  time.Duration `koanf:"doc_timeout"`

	// Storage locations.
	DataDir string `koanf:"data_dir"`
	BlobDir string `koanf:"blob_dir"`

	HTTPAddr  string `koanf:"http_addr"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	AssetSyncInterval time.Duration `koanf:"asset_sync_interval"`
	AlertSyncInterval time.Duration `koanf:"alert_sync_interval"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// defaults returns the baseline configuration before file and env layering.
func defaults() Config {
	return Config{
		DocPageSize:       100,
		DocTimeout:        30 * time.Second,
		DataDir:           "data/docstore",
		BlobDir:           "data/blobs",
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		LogFormat:         "json",
		AssetSyncInterval: 24 * time.Hour,
		AlertSyncInterval: time.Hour,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load reads configuration with precedence (low → high): defaults, YAML file
// named by HIKO_CONFIG, env vars with the HIKO_ prefix (e.g. HIKO_DOC_BASE_URL,
// HIKO_DOC_API_KEY).
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("HIKO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("HIKO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "HIKO_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.DocBaseURL = strings.TrimRight(cfg.DocBaseURL, "/")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DocBaseURL == "" {
		return errors.New("HIKO_DOC_BASE_URL is required")
	}
	if c.DocAPIKey == "" {
		return errors.New("HIKO_DOC_API_KEY is required")
	}
	if c.DocPageSize <= 0 {
		return errors.New("doc_page_size must be positive")
	}
	if c.AssetSyncInterval <= 0 || c.AlertSyncInterval <= 0 {
		return errors.New("sync intervals must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

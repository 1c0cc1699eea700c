// Package config loads server settings from CONFIGS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/alfredjeanlab/configs/internal/token"
)

// Prefix is prepended to every variable name, e.g. CONFIGS_DATABASE_URL.
const Prefix = "CONFIGS"

type Config struct {
	DatabaseURL string `split_words:"true" required:"true" desc:"PostgreSQL connection URL"`
	GRPCAddr    string `split_words:"true" default:":9090" desc:"gRPC listen address"`
	HTTPAddr    string `split_words:"true" default:":8080" desc:"HTTP listen address"`
	NatsURL     string `split_words:"true" desc:"NATS URL for lifecycle events (empty = no events)"`
	AuthToken   string `split_words:"true" desc:"bearer token for API access (empty = auth disabled)"`

	// Token signing
	TokenSecret string        `split_words:"true" required:"true" desc:"HMAC secret for configuration tokens (at least 32 bytes)"`
	TokenIssuer string        `split_words:"true" default:"configs" desc:"iss claim written to and required on tokens"`
	TokenTTL    time.Duration `split_words:"true" default:"0s" desc:"token lifetime (0 = never expires)"`

	// Sync settings
	SyncInterval   time.Duration `split_words:"true" default:"3m" desc:"export interval (0 = disabled)"`
	SyncS3Bucket   string        `split_words:"true" desc:"enables S3 export when set"`
	SyncS3Endpoint string        `split_words:"true" desc:"custom S3 endpoint (MinIO)"`
	SyncS3Region   string        `split_words:"true" default:"us-east-1"`
	SyncS3Key      string        `split_words:"true" default:"configs/backup.jsonl"`
	SyncGitRepo    string        `split_words:"true" desc:"enables git export when set; path to a clone"`
	SyncGitFile    string        `split_words:"true" default:"configurations.jsonl"`
	SyncGitBranch  string        `split_words:"true" default:"main"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// validate catches what envconfig does not: variables set to the empty string
// satisfy "required".
func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New(Prefix + "_DATABASE_URL is required")
	}
	if c.TokenSecret == "" {
		return errors.New(Prefix + "_TOKEN_SECRET is required")
	}
	if len(c.TokenSecret) < token.MinSecretLen {
		return fmt.Errorf("%s_TOKEN_SECRET must be at least %d bytes, got %d", Prefix, token.MinSecretLen, len(c.TokenSecret))
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("%s_TOKEN_TTL must not be negative, got %s", Prefix, c.TokenTTL)
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("%s_SYNC_INTERVAL must not be negative, got %s", Prefix, c.SyncInterval)
	}
	return nil
}

// SyncEnabled reports whether any export destination is configured.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncS3Bucket != "" || c.SyncGitRepo != "")
}

// Usage writes a table of the supported variables to w.
func Usage(w io.Writer) error {
	return envconfig.Usagef(Prefix, &Config{}, w, envconfig.DefaultTableFormat)
}

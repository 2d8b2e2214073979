package api

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings for a Client.
type Config struct {
	// BaseURL is the root of the platform API, e.g. "https://api.sewabazaar.com".
	// The notification stream endpoint is derived from it.
	BaseURL string `envconfig:"BASE_URL" required:"true"`

	// Token is the bearer token attached to every request. Leave empty for
	// anonymous access or when using WithTokenProvider.
	Token string `envconfig:"TOKEN"`

	// Timeout bounds non-streaming requests. Streaming requests are bounded
	// by their context instead.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`

	// UserAgent overrides the default sewabazaar-go user agent.
	UserAgent string `envconfig:"USER_AGENT"`
}

// ConfigFromEnv reads configuration from SEWABAZAAR_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("sewabazaar", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load sewabazaar config: %w", err)
	}
	return cfg, nil
}

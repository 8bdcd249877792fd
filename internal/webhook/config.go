// Package webhook sends order notifications to an HTTP endpoint.
package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/marcus/ordr/internal/config"
)

const defaultTimeout = 10 * time.Second

// EnvConfig holds the webhook overrides read from the environment.
type EnvConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type endpointEnv struct {
	URL    string `env:"ORDR_WEBHOOK_URL"`
	Secret string `env:"ORDR_WEBHOOK_SECRET"`
}

type timeoutEnv struct {
	Timeout time.Duration `env:"ORDR_WEBHOOK_TIMEOUT" envDefault:"10s"`
}

// LoadEnvConfig parses the environment. An unparsable or non-positive
// timeout falls back to the default without touching URL or secret.
func LoadEnvConfig() EnvConfig {
	var endpoint endpointEnv
	if err := env.Parse(&endpoint); err != nil {
		slog.Warn("webhook: parse env", "err", err)
	}

	var timeout timeoutEnv
	if err := env.Parse(&timeout); err != nil {
		slog.Warn("webhook: invalid ORDR_WEBHOOK_TIMEOUT, using default", "default", defaultTimeout, "err", err)
		timeout.Timeout = defaultTimeout
	}
	if timeout.Timeout <= 0 {
		timeout.Timeout = defaultTimeout
	}

	return EnvConfig{URL: endpoint.URL, Secret: endpoint.Secret, Timeout: timeout.Timeout}
}

// GetURL returns the webhook URL for the project.
// Priority: ORDR_WEBHOOK_URL env > config.json webhook.url.
func GetURL(baseDir string) string {
	if v := LoadEnvConfig().URL; v != "" {
		return v
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return ""
	}
	if cfg.Webhook != nil {
		return cfg.Webhook.URL
	}
	return ""
}

// GetSecret returns the webhook HMAC secret.
// Priority: ORDR_WEBHOOK_SECRET env > config.json webhook.secret.
func GetSecret(baseDir string) string {
	if v := LoadEnvConfig().Secret; v != "" {
		return v
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return ""
	}
	if cfg.Webhook != nil {
		return cfg.Webhook.Secret
	}
	return ""
}

// IsEnabled returns true if a webhook URL is configured.
func IsEnabled(baseDir string) bool {
	return GetURL(baseDir) != ""
}

// FromProject returns a Notifier configured for baseDir, or nil when no URL is set.
func FromProject(baseDir string) *Notifier {
	url := GetURL(baseDir)
	if url == "" {
		return nil
	}
	n := NewNotifier(url, GetSecret(baseDir))
	n.Client = &http.Client{Timeout: LoadEnvConfig().Timeout}
	return n
}

package config

import "time"

type ProvidersConfig struct {
	Google GoogleConfig `yaml:"google"`
	Fal    FalConfig    `yaml:"fal"`
	// MaxConcurrent bounds in-flight upstream editing calls across all providers.
	MaxConcurrent int64 `yaml:"max_concurrent"`
}

// GoogleConfig is the baseline configuration for the Gemini image editor.
// An empty APIKey is not an error: adapters fall back to the GOOGLE_API_KEY
// and GEMINI_API_KEY environment variables, and finally to degraded echo mode.
type GoogleConfig struct {
	APIKey  string `yaml:"api_key"`
	ModelID string `yaml:"model_id"`
}

// FalConfig is the baseline configuration for the fal.ai broker. BaseURL is
// overridable so tests can point the adapter at a local server.
type FalConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// Effective is the per-request view of provider configuration: the shared
// baseline plus an optional credential override taken from the request's
// Authorization header. A new value is produced per request; the baseline
// Config is never mutated.
type Effective struct {
	Providers ProvidersConfig

	// KeyOverride, when non-empty, takes precedence over every baseline and
	// environment API key for the provider handling the request.
	KeyOverride string
}

// Effective returns the baseline provider view with no override applied.
func (c *Config) Effective() Effective {
	return Effective{Providers: c.Providers}
}

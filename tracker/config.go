package tracker

import "time"

const (
	defaultBaseURL = "http://localhost:3001"
	defaultTimeout = 30 * time.Second
)

// Config holds backend client initialization parameters.
type Config struct {
	// BaseURL is the backend API root, e.g. http://backend:3001.
	BaseURL string `json:"base_url,omitempty"`
	// AuthToken, when set, is sent as a Bearer token on every request.
	AuthToken string `json:"auth_token,omitempty"`
	// TimeoutSeconds bounds each HTTP request. This is the only timeout the
	// orchestration layer enforces.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the default backend client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		TimeoutSeconds: int(defaultTimeout / time.Second),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.AuthToken != "" {
		c.AuthToken = source.AuthToken
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

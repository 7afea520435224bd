package session

import "time"

const (
	defaultAppName    = "task_assistant"
	defaultTTLSeconds = 3600
)

// Config holds session store parameters.
type Config struct {
	// AppName tags every session created by the store.
	AppName string `json:"app_name"`
	// TTLSeconds is the idle lifetime of a session. Zero or negative
	// disables expiry.
	TTLSeconds int `json:"ttl_seconds"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AppName:    defaultAppName,
		TTLSeconds: defaultTTLSeconds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}
	if source.AppName != "" {
		c.AppName = source.AppName
	}
	if source.TTLSeconds != 0 {
		c.TTLSeconds = source.TTLSeconds
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	base := DefaultConfig()
	base.Merge(cfg)

	ttl := time.Duration(base.TTLSeconds) * time.Second
	if base.TTLSeconds < 0 {
		ttl = 0
	}
	return NewMemoryStore(base.AppName, ttl), nil
}

package gemini

const (
	defaultModel     = "gemini-2.0-flash"
	defaultMaxRounds = 10
)

// Config holds Gemini engine parameters.
type Config struct {
	// Model is the Gemini model identifier.
	Model string `json:"model"`
	// APIKey authenticates against the Gemini API.
	APIKey string `json:"api_key"`
	// MaxRounds bounds the tool-calling loop within one turn.
	MaxRounds int `json:"max_rounds,omitempty"`
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() Config {
	return Config{
		Model:     defaultModel,
		MaxRounds: defaultMaxRounds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.MaxRounds > 0 {
		c.MaxRounds = source.MaxRounds
	}
}

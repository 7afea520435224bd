package assistant

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/taskboard/assistant/engine/gemini"
	"github.com/taskboard/assistant/session"
	"github.com/taskboard/assistant/tracker"
)

const defaultSystemPrompt = `You are a helpful task management assistant. You help users manage ` +
	`projects and tickets on their board. Use the available tools to look ` +
	`things up before answering, refer to tickets by their titles, and ask ` +
	`for confirmation before deleting anything.`

// Config holds initialization parameters for all assistant subsystems.
// Each subsystem section delegates to that subsystem's config-driven
// constructor.
type Config struct {
	Tracker      tracker.Config `json:"tracker"`
	Session      session.Config `json:"session"`
	Engine       gemini.Config  `json:"engine"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Tracker:      tracker.DefaultConfig(),
		Session:      session.DefaultConfig(),
		Engine:       gemini.DefaultConfig(),
		SystemPrompt: defaultSystemPrompt,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}
	c.Tracker.Merge(&source.Tracker)
	c.Session.Merge(&source.Session)
	c.Engine.Merge(&source.Engine)

	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

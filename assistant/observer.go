package assistant

import "github.com/taskboard/assistant/observability"

// Assistant event types emitted during a conversation turn.
const (
	EventTurnStart  observability.EventType = "assistant.turn.start"
	EventToolCall   observability.EventType = "assistant.tool.call"
	EventToolResult observability.EventType = "assistant.tool.result"
	EventResponse   observability.EventType = "assistant.response"
	EventTurnError  observability.EventType = "assistant.turn.error"
)

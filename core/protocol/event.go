package protocol

// EventKind identifies one entry in the per-turn streaming event sequence.
type EventKind string

const (
	// EventToolCall signals that the engine invoked a tool.
	EventToolCall EventKind = "tool_call"
	// EventToolResult carries the envelope produced for a prior tool call.
	EventToolResult EventKind = "tool_result"
	// EventText carries an incremental fragment of the narrated response.
	// Concatenation order equals emission order.
	EventText EventKind = "text"
	// EventDone terminates a successful turn. Exactly one is emitted, after
	// all other events, carrying the session id, the full concatenated
	// response, and the ordered actions-taken list.
	EventDone EventKind = "done"
	// EventError replaces EventDone when the turn fails. It is terminal; no
	// further events follow.
	EventError EventKind = "error"
)

// Action is one (tool call, result) pairing in a turn's actions-taken list.
// Result stays nil until a matching tool result event is observed; it remains
// nil if the engine never reported one before the terminal event.
type Action struct {
	CallID string         `json:"call_id,omitempty"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args"`
	Result *Envelope      `json:"result,omitempty"`
}

// Event is one element of the streaming gateway's ordered event sequence.
// Only the fields relevant to the event's Kind are populated.
type Event struct {
	Kind EventKind `json:"type"`

	// tool_call and tool_result fields.
	CallID string         `json:"call_id,omitempty"`
	Tool   string         `json:"tool,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
	Result *Envelope      `json:"result,omitempty"`

	// text fields.
	Text string `json:"content,omitempty"`

	// done fields.
	SessionID string   `json:"session_id,omitempty"`
	Response  string   `json:"full_response,omitempty"`
	Actions   []Action `json:"actions_taken,omitempty"`

	// error fields.
	Err string `json:"error,omitempty"`
}

// Package protocol defines the shared types exchanged between the reasoning
// engine, the tool catalog, and the dispatch loop: tool definitions, tool
// calls, the uniform result envelope, and the streaming event contract.
package protocol

// Tool describes one operation the reasoning engine may invoke.
// Parameters uses JSON Schema format to describe the operation's input;
// the catalog restricts itself to flat schemas of string, enumerated
// string, integer, and boolean parameters.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is one invocation emitted by the reasoning engine mid-turn.
// ID is a locally generated correlation identifier attached when the call
// is surfaced; results reference it so that same-named calls within one
// turn remain distinguishable.
type ToolCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

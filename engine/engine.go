// Package engine defines the reasoning engine contract: a natural-language
// turn goes in, a stream of tool calls, tool results, and text comes out.
//
// Engines decide WHICH tools to invoke; executing them stays on this side of
// the boundary, through the Executor the caller supplies. Tool failures are
// envelopes handed back to the engine, never stream errors; a stream error
// means the turn itself failed.
package engine

import (
	"context"

	"github.com/taskboard/assistant/core/protocol"
)

// Kind discriminates stream events.
type Kind string

const (
	// KindToolCall reports that the engine requested a tool invocation.
	KindToolCall Kind = "tool_call"
	// KindToolResult reports the envelope a tool invocation produced.
	KindToolResult Kind = "tool_result"
	// KindText carries a fragment of the engine's text response.
	KindText Kind = "text"
	// KindFinal closes a successful stream.
	KindFinal Kind = "final"
	// KindError closes a failed stream.
	KindError Kind = "error"
)

// Event is one element of an engine stream. Exactly one of the payload
// groups is set, according to Kind. Streams end with KindFinal or KindError;
// nothing follows either.
type Event struct {
	Kind Kind

	// KindToolCall.
	Call *protocol.ToolCall

	// KindToolResult. CallID and Tool echo the originating call.
	CallID string
	Tool   string
	Result *protocol.Envelope

	// KindText.
	Text string

	// KindError.
	Err error
}

// Executor runs tools on the engine's behalf. Execute recovers every failure
// into the envelope; it does not return errors.
type Executor interface {
	List() []protocol.Tool
	Execute(ctx context.Context, name string, args map[string]any) protocol.Envelope
}

// Request is one conversation turn handed to an engine.
type Request struct {
	Message      string
	UserID       string
	SessionID    string
	SystemPrompt string
	Tools        Executor
}

// Engine turns a request into a stream of events. The returned channel is
// closed after the terminal event. Implementations stop early when ctx is
// cancelled.
type Engine interface {
	Stream(ctx context.Context, req Request) (<-chan Event, error)
}

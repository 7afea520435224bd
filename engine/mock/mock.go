// Package mock provides a scripted engine for tests.
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/engine"
)

// Engine replays a fixed script instead of calling a model. Scripted tool
// calls are executed for real through the request's executor, so tests see
// genuine envelopes flow through the stream.
type Engine struct {
	// Calls are executed in order before any text is emitted.
	Calls []ScriptedCall
	// Text fragments are emitted after the calls.
	Text []string
	// Err, when set, terminates the stream with KindError instead of
	// KindFinal.
	Err error
	// Events, when non-nil, is replayed verbatim and everything above is
	// ignored.
	Events []engine.Event

	mu       sync.Mutex
	requests []engine.Request
}

// ScriptedCall is one tool invocation the mock engine will request. An empty
// ID gets a generated correlation id, like the real engine.
type ScriptedCall struct {
	ID   string
	Name string
	Args map[string]any
}

func (c ScriptedCall) toProtocol() *protocol.ToolCall {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &protocol.ToolCall{ID: id, Name: c.Name, Args: c.Args}
}

// Requests returns every request the engine has seen.
func (e *Engine) Requests() []engine.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Request(nil), e.requests...)
}

// Stream replays the script.
func (e *Engine) Stream(ctx context.Context, req engine.Request) (<-chan engine.Event, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	out := make(chan engine.Event)
	go func() {
		defer close(out)

		if e.Events != nil {
			for _, ev := range e.Events {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
			return
		}

		emit := func(ev engine.Event) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, call := range e.Calls {
			toolCall := call.toProtocol()
			if !emit(engine.Event{Kind: engine.KindToolCall, Call: toolCall}) {
				return
			}
			env := req.Tools.Execute(ctx, call.Name, call.Args)
			ok := emit(engine.Event{
				Kind:   engine.KindToolResult,
				CallID: toolCall.ID,
				Tool:   call.Name,
				Result: &env,
			})
			if !ok {
				return
			}
		}

		for _, text := range e.Text {
			if !emit(engine.Event{Kind: engine.KindText, Text: text}) {
				return
			}
		}

		if e.Err != nil {
			emit(engine.Event{Kind: engine.KindError, Err: e.Err})
			return
		}
		emit(engine.Event{Kind: engine.KindFinal})
	}()
	return out, nil
}

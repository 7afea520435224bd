// Package gemini implements the reasoning engine on the Gemini API, driving
// the function-calling loop until the model produces a text answer.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/engine"
)

// Engine is a Gemini-backed reasoning engine. Conversation history is kept
// per session id for the lifetime of the process. Safe for concurrent use.
type Engine struct {
	client    *genai.Client
	model     string
	maxRounds int

	mu        sync.Mutex
	histories map[string][]*genai.Content
}

// New creates an Engine from configuration.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	base := DefaultConfig()
	base.Merge(&cfg)

	if base.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: base.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Engine{
		client:    client,
		model:     base.Model,
		maxRounds: base.MaxRounds,
		histories: make(map[string][]*genai.Content),
	}, nil
}

// Stream runs one conversation turn. Tool calls requested by the model are
// executed through req.Tools as they arrive; the stream closes after a
// KindFinal or KindError event.
func (e *Engine) Stream(ctx context.Context, req engine.Request) (<-chan engine.Event, error) {
	if req.Tools == nil {
		return nil, fmt.Errorf("gemini: request has no tool executor")
	}

	out := make(chan engine.Event)
	go e.run(ctx, req, out)
	return out, nil
}

func (e *Engine) run(ctx context.Context, req engine.Request, out chan<- engine.Event) {
	defer close(out)

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{FunctionDeclarations: declarations(req.Tools.List())},
		},
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	contents := append(e.history(req.SessionID),
		genai.NewContentFromText(req.Message, genai.RoleUser))

	for round := 0; round < e.maxRounds; round++ {
		resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
		if err != nil {
			e.emit(ctx, out, engine.Event{Kind: engine.KindError, Err: fmt.Errorf("gemini: generate: %w", err)})
			return
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			e.emit(ctx, out, engine.Event{Kind: engine.KindError, Err: fmt.Errorf("gemini: empty response")})
			return
		}

		contents = append(contents, resp.Candidates[0].Content)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			if text := resp.Text(); text != "" {
				if !e.emit(ctx, out, engine.Event{Kind: engine.KindText, Text: text}) {
					return
				}
			}
			e.remember(req.SessionID, contents)
			e.emit(ctx, out, engine.Event{Kind: engine.KindFinal})
			return
		}

		replies := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			id := uuid.NewString()
			ok := e.emit(ctx, out, engine.Event{
				Kind: engine.KindToolCall,
				Call: &protocol.ToolCall{ID: id, Name: call.Name, Args: call.Args},
			})
			if !ok {
				return
			}

			env := req.Tools.Execute(ctx, call.Name, call.Args)
			ok = e.emit(ctx, out, engine.Event{
				Kind:   engine.KindToolResult,
				CallID: id,
				Tool:   call.Name,
				Result: &env,
			})
			if !ok {
				return
			}

			replies = append(replies, genai.NewPartFromFunctionResponse(call.Name, envelopeMap(env)))
		}

		contents = append(contents, genai.NewContentFromParts(replies, genai.RoleUser))
	}

	e.emit(ctx, out, engine.Event{
		Kind: engine.KindError,
		Err:  fmt.Errorf("gemini: tool loop exceeded %d rounds", e.maxRounds),
	})
}

func (e *Engine) emit(ctx context.Context, out chan<- engine.Event, ev engine.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// history returns a copy of the session's conversation so the loop can
// append without holding the lock.
func (e *Engine) history(sessionID string) []*genai.Content {
	e.mu.Lock()
	defer e.mu.Unlock()
	stored := e.histories[sessionID]
	return append(make([]*genai.Content, 0, len(stored)+4), stored...)
}

func (e *Engine) remember(sessionID string, contents []*genai.Content) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.histories[sessionID] = contents
}

// Forget drops the conversation history of a session.
func (e *Engine) Forget(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.histories, sessionID)
}

// envelopeMap flattens a tool envelope into the map shape the function
// response part expects.
func envelopeMap(env protocol.Envelope) map[string]any {
	raw, err := json.Marshal(env)
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	return m
}

// Package assistant composes the tracker client, tool catalog, session
// store, and reasoning engine into the conversational task-management
// service.
//
// The assistant initializes from configuration via New, creating all
// subsystems internally. Functional options allow overrides of any
// subsystem.
//
//	a, err := assistant.New(&cfg)
//	result, err := a.Chat(ctx, "alice", "", "move the login bug to done")
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/engine"
	"github.com/taskboard/assistant/engine/gemini"
	"github.com/taskboard/assistant/observability"
	"github.com/taskboard/assistant/session"
	"github.com/taskboard/assistant/tools"
	"github.com/taskboard/assistant/tracker"
)

// Result holds the outcome of one conversation turn.
type Result struct {
	SessionID string            // Session the turn ran in.
	Response  string            // Final narrated response.
	Actions   []protocol.Action // Ordered log of tool invocations.
}

// Option configures an Assistant during initialization. Options are applied
// before config-driven defaults fill the remaining subsystems, so an
// override suppresses construction of what it replaces.
type Option func(*Assistant)

// WithClient overrides the config-created tracker client.
func WithClient(c *tracker.Client) Option {
	return func(a *Assistant) { a.client = c }
}

// WithTools overrides the config-created tool catalog.
func WithTools(r *tools.Registry) Option {
	return func(a *Assistant) { a.registry = r }
}

// WithSessions overrides the config-created session store.
func WithSessions(s session.Store) Option {
	return func(a *Assistant) { a.sessions = s }
}

// WithEngine overrides the config-created reasoning engine.
func WithEngine(e engine.Engine) Option {
	return func(a *Assistant) { a.engine = e }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(a *Assistant) { a.observer = o }
}

// Assistant is the conversational service over the ticket tracker.
type Assistant struct {
	client       *tracker.Client
	registry     *tools.Registry
	sessions     session.Store
	engine       engine.Engine
	observer     observability.Observer
	systemPrompt string
}

// New creates an Assistant from configuration. Subsystems not replaced by an
// option are initialized from their config sections; in particular the
// Gemini engine is only constructed (and its API key required) when no
// WithEngine override is given.
func New(cfg *Config, opts ...Option) (*Assistant, error) {
	base := DefaultConfig()
	base.Merge(cfg)

	a := &Assistant{
		observer:     observability.NewSlogObserver(slog.Default()),
		systemPrompt: base.SystemPrompt,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		a.client = tracker.NewClient(base.Tracker)
	}
	if a.registry == nil {
		registry, err := tools.NewCatalog(a.client)
		if err != nil {
			return nil, fmt.Errorf("failed to build tool catalog: %w", err)
		}
		a.registry = registry
	}
	if a.sessions == nil {
		store, err := session.New(&base.Session)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
		a.sessions = store
	}
	if a.engine == nil {
		eng, err := gemini.New(context.Background(), base.Engine)
		if err != nil {
			return nil, fmt.Errorf("failed to create engine: %w", err)
		}
		a.engine = eng
	}

	return a, nil
}

// Tools returns the assistant's tool catalog.
func (a *Assistant) Tools() *tools.Registry {
	return a.registry
}

// Chat runs one conversation turn to completion and returns the final
// response together with the ordered actions-taken log. An empty sessionID
// starts a fresh session; the id in the Result addresses follow-up turns.
func (a *Assistant) Chat(ctx context.Context, userID, sessionID, message string) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	sid, err := a.sessions.GetOrCreate(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	a.event(ctx, EventTurnStart, observability.LevelInfo, map[string]any{
		"session_id":     sid,
		"message_length": len(message),
	})

	stream, err := a.engine.Stream(ctx, engine.Request{
		Message:      message,
		UserID:       userID,
		SessionID:    sid,
		SystemPrompt: a.systemPrompt,
		Tools:        a.registry,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	result := &Result{SessionID: sid}
	var response strings.Builder

	for ev := range stream {
		switch ev.Kind {
		case engine.KindToolCall:
			result.Actions = append(result.Actions, protocol.Action{
				CallID: ev.Call.ID,
				Tool:   ev.Call.Name,
				Args:   ev.Call.Args,
			})
			a.event(ctx, EventToolCall, observability.LevelVerbose, map[string]any{
				"session_id": sid,
				"tool":       ev.Call.Name,
			})

		case engine.KindToolResult:
			pairResult(result.Actions, ev.CallID, ev.Tool, ev.Result)
			a.event(ctx, EventToolResult, observability.LevelVerbose, map[string]any{
				"session_id": sid,
				"tool":       ev.Tool,
				"success":    ev.Result != nil && ev.Result.Success,
			})

		case engine.KindText:
			response.WriteString(ev.Text)

		case engine.KindFinal:
			result.Response = strings.TrimSpace(response.String())
			a.sessions.Touch(ctx, sid)
			a.event(ctx, EventResponse, observability.LevelInfo, map[string]any{
				"session_id":      sid,
				"actions":         len(result.Actions),
				"response_length": len(result.Response),
			})
			return result, nil

		case engine.KindError:
			a.event(ctx, EventTurnError, observability.LevelError, map[string]any{
				"session_id": sid,
				"error":      ev.Err.Error(),
			})
			return nil, fmt.Errorf("engine: %w", ev.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrTruncatedStream
}

// Session returns a snapshot of the user's live session. Sessions owned by
// other users are invisible.
func (a *Assistant) Session(ctx context.Context, userID, sessionID string) (session.Info, bool) {
	return a.sessions.Describe(ctx, userID, sessionID)
}

// DeleteSession removes the user's session and any conversation history the
// engine holds for it. Reports whether the session existed and belonged to
// the user.
func (a *Assistant) DeleteSession(ctx context.Context, userID, sessionID string) bool {
	if !a.sessions.Delete(ctx, userID, sessionID) {
		return false
	}
	if f, ok := a.engine.(interface{ Forget(string) }); ok {
		f.Forget(sessionID)
	}
	return true
}

func (a *Assistant) event(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	a.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "assistant.Chat",
		Data:      data,
	})
}

// pairResult attaches a tool result to its originating action: by
// correlation id when the engine echoed one, otherwise to the most recent
// unresolved call of the same tool.
func pairResult(actions []protocol.Action, callID, tool string, result *protocol.Envelope) {
	if callID != "" {
		for i := range actions {
			if actions[i].CallID == callID {
				actions[i].Result = result
				return
			}
		}
	}
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Tool == tool && actions[i].Result == nil {
			actions[i].Result = result
			return
		}
	}
}

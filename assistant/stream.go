package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/engine"
	"github.com/taskboard/assistant/observability"
)

// ChatStream runs one conversation turn and emits the ordered streaming
// event sequence: tool_call and tool_result events as actions happen, text
// fragments as the response is narrated, and exactly one terminal done or
// error event. The channel is closed after the terminal event.
func (a *Assistant) ChatStream(ctx context.Context, userID, sessionID, message string) (<-chan protocol.Event, error) {
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

	out := make(chan protocol.Event)
	go a.relay(ctx, sid, stream, out)
	return out, nil
}

// relay translates engine events into gateway events, accumulating the
// actions-taken log and the full response for the terminal done event.
func (a *Assistant) relay(ctx context.Context, sid string, stream <-chan engine.Event, out chan<- protocol.Event) {
	defer close(out)

	emit := func(ev protocol.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var actions []protocol.Action
	var response strings.Builder

	for ev := range stream {
		switch ev.Kind {
		case engine.KindToolCall:
			actions = append(actions, protocol.Action{
				CallID: ev.Call.ID,
				Tool:   ev.Call.Name,
				Args:   ev.Call.Args,
			})
			ok := emit(protocol.Event{
				Kind:   protocol.EventToolCall,
				CallID: ev.Call.ID,
				Tool:   ev.Call.Name,
				Args:   ev.Call.Args,
			})
			if !ok {
				return
			}

		case engine.KindToolResult:
			pairResult(actions, ev.CallID, ev.Tool, ev.Result)
			ok := emit(protocol.Event{
				Kind:   protocol.EventToolResult,
				CallID: ev.CallID,
				Tool:   ev.Tool,
				Result: ev.Result,
			})
			if !ok {
				return
			}

		case engine.KindText:
			response.WriteString(ev.Text)
			if !emit(protocol.Event{Kind: protocol.EventText, Text: ev.Text}) {
				return
			}

		case engine.KindFinal:
			a.sessions.Touch(ctx, sid)
			a.event(ctx, EventResponse, observability.LevelInfo, map[string]any{
				"session_id":      sid,
				"actions":         len(actions),
				"response_length": response.Len(),
			})
			emit(protocol.Event{
				Kind:      protocol.EventDone,
				SessionID: sid,
				Response:  strings.TrimSpace(response.String()),
				Actions:   actions,
			})
			return

		case engine.KindError:
			a.event(ctx, EventTurnError, observability.LevelError, map[string]any{
				"session_id": sid,
				"error":      ev.Err.Error(),
			})
			emit(protocol.Event{Kind: protocol.EventError, Err: ev.Err.Error()})
			return
		}
	}

	emit(protocol.Event{Kind: protocol.EventError, Err: ErrTruncatedStream.Error()})
}

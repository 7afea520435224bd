package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskboard/assistant/observability"
)

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{1, "TRACE"},
		{observability.LevelVerbose, "DEBUG"},
		{observability.LevelInfo, "INFO"},
		{observability.LevelWarning, "WARN"},
		{observability.LevelError, "ERROR"},
		{21, "FATAL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.LevelVerbose.SlogLevel())
	assert.Equal(t, slog.LevelInfo, observability.LevelInfo.SlogLevel())
	assert.Equal(t, slog.LevelWarn, observability.LevelWarning.SlogLevel())
	assert.Equal(t, slog.LevelError, observability.LevelError.SlogLevel())
}

func TestMultiObserver_FansOutAndFiltersNil(t *testing.T) {
	first := &captureObserver{}
	second := &captureObserver{}

	multi := observability.NewMultiObserver(first, nil, second)
	multi.OnEvent(t.Context(), observability.Event{
		Type:  "assistant.turn.start",
		Level: observability.LevelInfo,
	})

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Equal(t, observability.EventType("assistant.turn.start"), first.events[0].Type)
}

func TestNoOpObserver(t *testing.T) {
	observability.NoOpObserver{}.OnEvent(t.Context(), observability.Event{
		Type:  "assistant.turn.start",
		Level: observability.LevelInfo,
	})
}

func TestSlogObserver_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(t.Context(), observability.Event{
		Type:      "assistant.tool.call",
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "assistant.Chat",
	})
	assert.Zero(t, buf.Len())

	obs.OnEvent(t.Context(), observability.Event{
		Type:      "assistant.response",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "assistant.Chat",
	})
	assert.NotZero(t, buf.Len())
}

func TestSlogObserver_EventTypeAsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(t.Context(), observability.Event{
		Type:      "assistant.turn.start",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "assistant.Chat",
		Data:      map[string]any{"session_id": "abc"},
	})

	output := buf.String()
	assert.True(t, strings.Contains(output, "assistant.turn.start"), output)
	assert.True(t, strings.Contains(output, "source=assistant.Chat"), output)
	assert.True(t, strings.Contains(output, "session_id=abc"), output)
}

package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/assistant/core/protocol"
)

func TestOK(t *testing.T) {
	env := protocol.OK("Created ticket 'Fix login bug'", map[string]any{"id": "t-1"})

	assert.True(t, env.Success)
	assert.Equal(t, "Created ticket 'Fix login bug'", env.Message)
	assert.Empty(t, env.Error)
	assert.Equal(t, "t-1", env.Data["id"])
	assert.False(t, env.RequiresConfirmation)
}

func TestFail(t *testing.T) {
	env := protocol.Fail("Project '%s' not found", "Payments")

	assert.False(t, env.Success)
	assert.Equal(t, "Project 'Payments' not found", env.Error)
	assert.Nil(t, env.Data)
}

func TestNeedsConfirmation(t *testing.T) {
	env := protocol.NeedsConfirmation("Please confirm the deletion.")

	assert.False(t, env.Success)
	assert.True(t, env.RequiresConfirmation)
	assert.Equal(t, "Please confirm the deletion.", env.Message)
	assert.Empty(t, env.Error)
}

func TestEnvelope_JSONShape(t *testing.T) {
	data, err := json.Marshal(protocol.Fail("boom"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "boom", decoded["error"])
	assert.NotContains(t, decoded, "message")
	assert.NotContains(t, decoded, "data")
	assert.NotContains(t, decoded, "requires_confirmation")
}

func TestEvent_JSONShape(t *testing.T) {
	ev := protocol.Event{
		Kind:   protocol.EventToolCall,
		CallID: "call-1",
		Tool:   "create_ticket",
		Args:   map[string]any{"title": "Fix login bug"},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "tool_call", decoded["type"])
	assert.Equal(t, "create_ticket", decoded["tool"])
	assert.NotContains(t, decoded, "session_id")
	assert.NotContains(t, decoded, "full_response")
}

func TestEventKind_Constants(t *testing.T) {
	tests := []struct {
		kind protocol.EventKind
		want string
	}{
		{protocol.EventToolCall, "tool_call"},
		{protocol.EventToolResult, "tool_result"},
		{protocol.EventText, "text"},
		{protocol.EventDone, "done"},
		{protocol.EventError, "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(tt.kind))
	}
}

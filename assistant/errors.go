package assistant

import "errors"

var (
	// ErrEmptyMessage is returned when a turn has no user message.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrTruncatedStream is returned when the engine stream ends without a
	// terminal event.
	ErrTruncatedStream = errors.New("engine stream ended without terminal event")
)

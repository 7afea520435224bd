package protocol

import "fmt"

// Envelope is the uniform result every tool operation returns. The reasoning
// engine is tuned against this exact shape: failures are data it can read
// back, never errors raised past the tool boundary.
type Envelope struct {
	Success              bool           `json:"success"`
	Message              string         `json:"message,omitempty"`
	Error                string         `json:"error,omitempty"`
	Data                 map[string]any `json:"data,omitempty"`
	RequiresConfirmation bool           `json:"requires_confirmation,omitempty"`
}

// OK builds a success envelope with an optional human-readable message and
// payload data.
func OK(message string, data map[string]any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope from a formatted error message.
func Fail(format string, args ...any) Envelope {
	return Envelope{Success: false, Error: fmt.Sprintf(format, args...)}
}

// NeedsConfirmation builds the soft-stop envelope that instructs the caller
// to re-invoke the tool with explicit confirmation after user assent.
func NeedsConfirmation(message string) Envelope {
	return Envelope{Success: false, Message: message, RequiresConfirmation: true}
}

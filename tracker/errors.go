package tracker

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx backend response. The raw body is preserved so the
// tool layer can surface the backend's own error text unscrubbed.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// NotFound reports whether the error is a backend 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Package session tracks conversation sessions for the assistant: stable
// identifiers scoped to a user, activity timestamps, and idle expiry.
package session

import "time"

// Info describes a live session. It is a snapshot; mutating it has no effect
// on the stored session.
type Info struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AppName    string    `json:"app_name"`
	EventCount int       `json:"event_count"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

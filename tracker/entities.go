// Package tracker implements the REST client for the ticket-tracking backend
// and the entity types it exchanges: projects, tickets, filters, and the
// per-status board summary.
package tracker

import "time"

// Status is a ticket's board column.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusBlocked    Status = "BLOCKED"
)

// Statuses lists all board columns in their canonical display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Priority is a ticket's urgency level.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket is a single work item. Position is fractional so the backend can
// insert between existing items without renumbering a column.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Position    float64   `json:"position"`
	ProjectID   string    `json:"projectId"`
	AssigneeID  string    `json:"assigneeId,omitempty"`
	Source      string    `json:"source,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Project groups tickets under a short uppercase key such as "FRNT".
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Key         string    `json:"key"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTicket is the payload for creating a ticket. Status and Priority
// default backend-side to TODO and MEDIUM when empty.
type CreateTicket struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	ProjectID   string   `json:"projectId,omitempty"`
	AssigneeID  string   `json:"assigneeId,omitempty"`
}

// UpdateTicket is a partial update. Nil fields are omitted from the request
// entirely, so "leave unchanged" and "clear" stay distinguishable at this
// boundary.
type UpdateTicket struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	AssigneeID  *string   `json:"assigneeId,omitempty"`
}

// Move repositions a ticket: a status change, a fractional position change,
// or both. A nil Position lets the backend place the ticket at the top of
// the target column.
type Move struct {
	Status   *Status  `json:"status,omitempty"`
	Position *float64 `json:"position,omitempty"`
}

// CreateProject is the payload for creating a project.
type CreateProject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Key         string `json:"key"`
}

// Filter narrows a ticket listing. Zero values are omitted from the query.
type Filter struct {
	ProjectID string
	Status    Status
	Priority  Priority
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Page is one page of a ticket listing. Total reflects the full matching
// set, which may exceed len(Items).
type Page struct {
	Items    []Ticket `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// BoardSummary is the fixed-shape per-project status breakdown. All four
// status keys are always present, zero or not.
type BoardSummary struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	ProjectKey  string `json:"project_key"`
	Todo        int    `json:"TODO"`
	InProgress  int    `json:"IN_PROGRESS"`
	Done        int    `json:"DONE"`
	Blocked     int    `json:"BLOCKED"`
}

// BoardReport aggregates board summaries across the requested projects.
type BoardReport struct {
	Projects      []BoardSummary `json:"projects"`
	TotalProjects int            `json:"total_projects"`
}

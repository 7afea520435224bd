package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/tracker"
)

func (c *catalog) registerTicketTools(r *Registry) error {
	specs := []struct {
		tool    protocol.Tool
		handler Handler
	}{
		{
			tool: protocol.Tool{
				Name:        "create_ticket",
				Description: "Create a new ticket in the task management system.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Title of the ticket.",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Detailed description of the ticket.",
						},
						"priority": map[string]any{
							"type":        "string",
							"enum":        priorityValues,
							"description": "Priority level. Defaults to MEDIUM.",
						},
						"status": map[string]any{
							"type":        "string",
							"enum":        statusValues,
							"description": "Initial status. Defaults to TODO.",
						},
						"project_id": map[string]any{
							"type":        "string",
							"description": "Project ID, key, or name. Resolved by name when not an ID.",
						},
					},
					"required": []string{"title"},
				},
			},
			handler: c.createTicket,
		},
		{
			tool: protocol.Tool{
				Name:        "update_ticket",
				Description: "Update an existing ticket's title, description, or priority. Empty fields are left unchanged.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ticket_id": map[string]any{
							"type":        "string",
							"description": "Ticket ID or title. Resolved by title search when not an ID.",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "New title. Leave empty to keep the current one.",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "New description. Leave empty to keep the current one.",
						},
						"priority": map[string]any{
							"type":        "string",
							"enum":        priorityValues,
							"description": "New priority. Leave empty to keep the current one.",
						},
					},
					"required": []string{"ticket_id"},
				},
			},
			handler: c.updateTicket,
		},
		{
			tool: protocol.Tool{
				Name:        "move_ticket",
				Description: "Move a ticket to a different status column.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ticket_id": map[string]any{
							"type":        "string",
							"description": "Ticket ID or title. Resolved by title search when not an ID.",
						},
						"new_status": map[string]any{
							"type":        "string",
							"enum":        statusValues,
							"description": "Target status column.",
						},
					},
					"required": []string{"ticket_id", "new_status"},
				},
			},
			handler: c.moveTicket,
		},
		{
			tool: protocol.Tool{
				Name:        "delete_ticket",
				Description: "Delete a ticket. Requires explicit confirmation before anything is deleted.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ticket_id": map[string]any{
							"type":        "string",
							"description": "ID of the ticket to delete.",
						},
						"confirmed": map[string]any{
							"type":        "boolean",
							"description": "Must be true to actually delete. Ask the user to confirm first.",
						},
					},
					"required": []string{"ticket_id"},
				},
			},
			handler: c.deleteTicket,
		},
		{
			tool: protocol.Tool{
				Name:        "list_tickets",
				Description: "List tickets with optional project, status, and priority filters.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"project_id": map[string]any{
							"type":        "string",
							"description": "Project ID, key, or name. Leave empty for all projects.",
						},
						"status": map[string]any{
							"type":        "string",
							"enum":        statusValues,
							"description": "Filter by status.",
						},
						"priority": map[string]any{
							"type":        "string",
							"enum":        priorityValues,
							"description": "Filter by priority.",
						},
						"limit": map[string]any{
							"type":        "integer",
							"description": "Maximum number of tickets to return. Defaults to 20.",
						},
					},
				},
			},
			handler: c.listTickets,
		},
		{
			tool: protocol.Tool{
				Name:        "search_tickets",
				Description: "Search tickets by text in title or description.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "Search text.",
						},
						"project_id": map[string]any{
							"type":        "string",
							"description": "Optional project ID to search within.",
						},
					},
					"required": []string{"query"},
				},
			},
			handler: c.searchTickets,
		},
		{
			tool: protocol.Tool{
				Name:        "get_ticket",
				Description: "Get detailed information about a specific ticket.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ticket_id": map[string]any{
							"type":        "string",
							"description": "ID of the ticket to retrieve.",
						},
					},
					"required": []string{"ticket_id"},
				},
			},
			handler: c.getTicket,
		},
	}

	for _, spec := range specs {
		if err := r.Register(spec.tool, spec.handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *catalog) createTicket(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Status      string `json:"status"`
		ProjectID   string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.Title == "" {
		return protocol.Fail("title is required"), nil
	}
	if args.Priority != "" && !validPriority(args.Priority) {
		return protocol.Fail("invalid priority %q, expected one of %v", args.Priority, priorityValues), nil
	}
	if args.Status != "" && !validStatus(args.Status) {
		return protocol.Fail("invalid status %q, expected one of %v", args.Status, statusValues), nil
	}

	projectID := args.ProjectID
	if projectID != "" {
		resolved, fail := c.resolveProjectRef(ctx, projectID)
		if fail != nil {
			return *fail, nil
		}
		projectID = resolved
	}

	req := tracker.CreateTicket{
		Title:       args.Title,
		Description: args.Description,
		Status:      tracker.Status(args.Status),
		Priority:    tracker.Priority(args.Priority),
		ProjectID:   projectID,
	}
	if req.Status == "" {
		req.Status = tracker.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = tracker.PriorityMedium
	}

	ticket, err := c.client.CreateTicket(ctx, req)
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK(
		fmt.Sprintf("Created ticket '%s'", ticket.Title),
		map[string]any{"ticket": ticket},
	), nil
}

func (c *catalog) updateTicket(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		TicketID    string `json:"ticket_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.TicketID == "" {
		return protocol.Fail("ticket_id is required"), nil
	}
	if args.Priority != "" && !validPriority(args.Priority) {
		return protocol.Fail("invalid priority %q, expected one of %v", args.Priority, priorityValues), nil
	}

	ticketID, fail := c.resolveTicketRef(ctx, args.TicketID)
	if fail != nil {
		return *fail, nil
	}

	// Empty string means "leave unchanged": only explicitly supplied fields
	// make it into the partial update.
	var req tracker.UpdateTicket
	if args.Title != "" {
		req.Title = &args.Title
	}
	if args.Description != "" {
		req.Description = &args.Description
	}
	if args.Priority != "" {
		priority := tracker.Priority(args.Priority)
		req.Priority = &priority
	}

	ticket, err := c.client.UpdateTicket(ctx, ticketID, req)
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK(
		fmt.Sprintf("Updated ticket '%s'", ticket.Title),
		map[string]any{"ticket": ticket},
	), nil
}

func (c *catalog) moveTicket(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		TicketID  string `json:"ticket_id"`
		NewStatus string `json:"new_status"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if !validStatus(args.NewStatus) {
		return protocol.Fail("invalid status %q, expected one of %v", args.NewStatus, statusValues), nil
	}

	ticketID, fail := c.resolveTicketRef(ctx, args.TicketID)
	if fail != nil {
		return *fail, nil
	}

	status := tracker.Status(args.NewStatus)
	ticket, err := c.client.MoveTicket(ctx, ticketID, tracker.Move{Status: &status})
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK(
		fmt.Sprintf("Moved '%s' to %s", ticket.Title, args.NewStatus),
		map[string]any{"ticket": ticket},
	), nil
}

func (c *catalog) deleteTicket(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		TicketID  string `json:"ticket_id"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}

	// The single confirmation gate in the system. Without assent the backend
	// is never called, regardless of the other arguments.
	if !args.Confirmed {
		return protocol.NeedsConfirmation(
			"Please confirm you want to delete this ticket. This action cannot be undone.",
		), nil
	}

	if args.TicketID == "" {
		return protocol.Fail("ticket_id is required"), nil
	}
	if err := c.client.DeleteTicket(ctx, args.TicketID); err != nil {
		return failFrom(err), nil
	}
	return protocol.OK("Ticket deleted successfully", nil), nil
}

func (c *catalog) listTickets(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		ProjectID string `json:"project_id"`
		Status    string `json:"status"`
		Priority  string `json:"priority"`
		Limit     int    `json:"limit"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}

	projectID := args.ProjectID
	if projectID != "" {
		resolved, fail := c.resolveProjectRef(ctx, projectID)
		if fail != nil {
			return *fail, nil
		}
		projectID = resolved
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	page, err := c.client.ListTickets(ctx, tracker.Filter{
		ProjectID: projectID,
		Status:    tracker.Status(args.Status),
		Priority:  tracker.Priority(args.Priority),
		Limit:     limit,
	})
	if err != nil {
		return failFrom(err), nil
	}

	// count is the returned page size; total is the full matching set.
	return protocol.OK("", map[string]any{
		"tickets": page.Items,
		"count":   len(page.Items),
		"total":   page.Total,
	}), nil
}

func (c *catalog) searchTickets(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		Query     string `json:"query"`
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.Query == "" {
		return protocol.Fail("query is required"), nil
	}

	tickets, err := c.client.SearchTickets(ctx, args.Query, args.ProjectID, 10)
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK("", map[string]any{
		"tickets": tickets,
		"count":   len(tickets),
	}), nil
}

func (c *catalog) getTicket(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		TicketID string `json:"ticket_id"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.TicketID == "" {
		return protocol.Fail("ticket_id is required"), nil
	}

	ticket, err := c.client.GetTicket(ctx, args.TicketID)
	if err != nil {
		var apiErr *tracker.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return protocol.Fail("Ticket not found"), nil
		}
		return failFrom(err), nil
	}
	return protocol.OK("", map[string]any{"ticket": ticket}), nil
}

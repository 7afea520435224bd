package tools

import (
	"context"
	"errors"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/resolve"
	"github.com/taskboard/assistant/tracker"
)

var (
	statusValues   = []string{"TODO", "IN_PROGRESS", "DONE", "BLOCKED"}
	priorityValues = []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}
)

// catalog binds the tool handlers to the backend client and the entity
// resolver they compose.
type catalog struct {
	client   *tracker.Client
	resolver *resolve.Resolver
}

// NewCatalog builds a Registry holding the full set of ticket and project
// operations backed by the given client.
func NewCatalog(client *tracker.Client) (*Registry, error) {
	c := &catalog{client: client, resolver: resolve.New(client)}

	registry := NewRegistry()
	if err := c.registerTicketTools(registry); err != nil {
		return nil, err
	}
	if err := c.registerProjectTools(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// resolveProjectRef maps a project reference to an id, or returns the
// failure envelope the owning tool should hand back.
func (c *catalog) resolveProjectRef(ctx context.Context, ref string) (string, *protocol.Envelope) {
	res, err := c.resolver.Project(ctx, ref)
	if err != nil {
		env := protocol.Fail("%s", err)
		return "", &env
	}
	if res.State != resolve.Resolved {
		env := protocol.Fail("Project '%s' not found. Use list_projects to see available projects.", ref)
		return "", &env
	}
	return res.ID, nil
}

// resolveTicketRef maps a ticket reference to an id, or returns the failure
// envelope the owning tool should hand back.
func (c *catalog) resolveTicketRef(ctx context.Context, ref string) (string, *protocol.Envelope) {
	res, err := c.resolver.Ticket(ctx, ref, "")
	if err != nil {
		env := protocol.Fail("%s", err)
		return "", &env
	}
	if res.State != resolve.Resolved {
		env := protocol.Fail("Ticket '%s' not found. Use search_tickets or list_tickets to find it.", ref)
		return "", &env
	}
	return res.ID, nil
}

// failFrom converts a backend error into the uniform envelope, preserving
// the backend's own error text for API failures.
func failFrom(err error) protocol.Envelope {
	var apiErr *tracker.APIError
	if errors.As(err, &apiErr) {
		return protocol.Fail("%s", apiErr.Error())
	}
	return protocol.Fail("%s", err)
}

func validStatus(s string) bool {
	return tracker.Status(s).Valid()
}

func validPriority(p string) bool {
	return tracker.Priority(p).Valid()
}

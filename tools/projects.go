package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/taskboard/assistant/core/protocol"
	"github.com/taskboard/assistant/tracker"
)

const (
	projectKeyMinLength = 2
	projectKeyMaxLength = 10
)

func (c *catalog) registerProjectTools(r *Registry) error {
	specs := []struct {
		tool    protocol.Tool
		handler Handler
	}{
		{
			tool: protocol.Tool{
				Name:        "list_projects",
				Description: "List all available projects.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
			handler: c.listProjects,
		},
		{
			tool: protocol.Tool{
				Name:        "get_project",
				Description: "Get detailed information about a project.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"project_id": map[string]any{
							"type":        "string",
							"description": "ID of the project to retrieve.",
						},
					},
					"required": []string{"project_id"},
				},
			},
			handler: c.getProject,
		},
		{
			tool: protocol.Tool{
				Name:        "get_board_summary",
				Description: "Get a board summary with ticket counts by status for one project, or all projects when none is given.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"project_id": map[string]any{
							"type":        "string",
							"description": "Project ID, key, or name. Leave empty to summarize all projects.",
						},
					},
				},
			},
			handler: c.boardSummary,
		},
		{
			tool: protocol.Tool{
				Name:        "create_project",
				Description: "Create a new project.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Name of the project, e.g. \"Frontend Development\".",
						},
						"key": map[string]any{
							"type":        "string",
							"description": "Short unique project key of 2-10 characters, e.g. \"FRNT\". Folded to uppercase.",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Optional description of the project.",
						},
					},
					"required": []string{"name", "key"},
				},
			},
			handler: c.createProject,
		},
		{
			tool: protocol.Tool{
				Name:        "delete_project",
				Description: "Delete a project and all of its tickets.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"project_id": map[string]any{
							"type":        "string",
							"description": "Project ID, key, or name. Resolved by name when not an ID.",
						},
					},
					"required": []string{"project_id"},
				},
			},
			handler: c.deleteProject,
		},
	}

	for _, spec := range specs {
		if err := r.Register(spec.tool, spec.handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *catalog) listProjects(ctx context.Context, _ json.RawMessage) (protocol.Envelope, error) {
	projects, err := c.client.ListProjects(ctx)
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK("", map[string]any{
		"projects": projects,
		"count":    len(projects),
	}), nil
}

func (c *catalog) getProject(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.ProjectID == "" {
		return protocol.Fail("project_id is required"), nil
	}

	project, err := c.client.GetProject(ctx, args.ProjectID)
	if err != nil {
		var apiErr *tracker.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return protocol.Fail("Project not found"), nil
		}
		return failFrom(err), nil
	}
	return protocol.OK("", map[string]any{"project": project}), nil
}

func (c *catalog) boardSummary(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		ProjectID string `json:"project_id"`
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

	report, err := c.client.BoardSummary(ctx, projectID)
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK("", map[string]any{
		"projects":       report.Projects,
		"total_projects": report.TotalProjects,
	}), nil
}

func (c *catalog) createProject(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		Name        string `json:"name"`
		Key         string `json:"key"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.Name == "" {
		return protocol.Fail("name is required"), nil
	}

	// Normalize before validating: uppercase, truncated to the maximum.
	key := strings.ToUpper(args.Key)
	if len(key) > projectKeyMaxLength {
		key = key[:projectKeyMaxLength]
	}
	if len(key) < projectKeyMinLength {
		return protocol.Fail("Project key must be at least %d characters", projectKeyMinLength), nil
	}

	project, err := c.client.CreateProject(ctx, tracker.CreateProject{
		Name:        args.Name,
		Key:         key,
		Description: args.Description,
	})
	if err != nil {
		return failFrom(err), nil
	}
	return protocol.OK(
		fmt.Sprintf("Created project '%s' (%s)", project.Name, project.Key),
		map[string]any{"project": project},
	), nil
}

func (c *catalog) deleteProject(ctx context.Context, raw json.RawMessage) (protocol.Envelope, error) {
	var args struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return protocol.Fail("invalid arguments: %s", err), nil
	}
	if args.ProjectID == "" {
		return protocol.Fail("Project ID or name is required"), nil
	}

	projectID, fail := c.resolveProjectRef(ctx, args.ProjectID)
	if fail != nil {
		return *fail, nil
	}

	// Unlike delete_ticket there is no confirmation gate here, and the
	// backend cascades the delete to the project's tickets.
	if err := c.client.DeleteProject(ctx, projectID); err != nil {
		return failFrom(err), nil
	}
	return protocol.OK(
		fmt.Sprintf("Successfully deleted project '%s'", args.ProjectID),
		nil,
	), nil
}

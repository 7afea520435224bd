package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Client talks to the ticket-tracking backend over REST. It is safe for
// concurrent use; the underlying connection pool is shared across all
// in-flight turns.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client from configuration.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		token:   cfg.AuthToken,
		http:    &http.Client{Timeout: cfg.timeout()},
	}
}

// do issues one request and decodes the response body into out (when out is
// non-nil), transparently unwrapping the backend's optional {data: ...}
// envelope.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// unwrap returns the inner payload when the body has the {data: ...} shape,
// or the body itself otherwise. The backend uses both shapes.
func unwrap(raw []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req CreateProject) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project by id. The backend cascades the delete to
// the project's tickets.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, nil)
}

// ListTickets fetches one page of tickets matching the filter.
func (c *Client) ListTickets(ctx context.Context, filter Filter) (Page, error) {
	query := url.Values{}
	if filter.ProjectID != "" {
		query.Set("projectId", filter.ProjectID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.SortBy != "" {
		query.Set("sortBy", filter.SortBy)
	}
	if filter.SortOrder != "" {
		query.Set("sortOrder", filter.SortOrder)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, "/tickets", query, nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// GetTicket fetches one ticket by id.
func (c *Client) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets/"+url.PathEscape(id), nil, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket creates a ticket.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicket) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies a partial update to a ticket.
func (c *Client) UpdateTicket(ctx context.Context, id string, req UpdateTicket) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPut, "/tickets/"+url.PathEscape(id), nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// MoveTicket changes a ticket's status and/or position via the backend's
// reorder operation.
func (c *Client) MoveTicket(ctx context.Context, id string, req Move) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPatch, "/tickets/"+url.PathEscape(id)+"/reorder", nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteTicket deletes a ticket by id.
func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil, nil, nil)
}

// SearchTickets runs the backend's free-text search over title and
// description, optionally scoped to a project.
func (c *Client) SearchTickets(ctx context.Context, query, projectID string, limit int) ([]Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	page, err := c.ListTickets(ctx, Filter{Search: query, ProjectID: projectID, Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// BoardSummary builds per-status ticket counts for one project, or for every
// project when projectID is empty. Each project costs exactly four count
// queries (limit 1, Total read from the page); the four run concurrently.
func (c *Client) BoardSummary(ctx context.Context, projectID string) (BoardReport, error) {
	var projects []Project
	if projectID != "" {
		project, err := c.GetProject(ctx, projectID)
		if err != nil {
			return BoardReport{}, err
		}
		projects = []Project{*project}
	} else {
		var err error
		projects, err = c.ListProjects(ctx)
		if err != nil {
			return BoardReport{}, err
		}
	}

	report := BoardReport{Projects: make([]BoardSummary, len(projects))}
	for i, project := range projects {
		summary := BoardSummary{
			ProjectID:   project.ID,
			ProjectName: project.Name,
			ProjectKey:  project.Key,
		}

		counts := make([]int, len(Statuses))
		g, gctx := errgroup.WithContext(ctx)
		for j, status := range Statuses {
			g.Go(func() error {
				page, err := c.ListTickets(gctx, Filter{ProjectID: project.ID, Status: status, Limit: 1})
				if err != nil {
					return err
				}
				counts[j] = page.Total
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return BoardReport{}, err
		}

		summary.Todo = counts[0]
		summary.InProgress = counts[1]
		summary.Done = counts[2]
		summary.Blocked = counts[3]
		report.Projects[i] = summary
	}

	report.TotalProjects = len(report.Projects)
	return report, nil
}

package tracker_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/assistant/tracker"
)

func newClient(t *testing.T, handler http.Handler) *tracker.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return tracker.NewClient(tracker.Config{BaseURL: server.URL})
}

func TestListProjects_UnwrapsDataEnvelope(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"p-1","name":"Payments","key":"PAY"}]}`)
	}))

	projects, err := client.ListProjects(t.Context())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p-1", projects[0].ID)
	assert.Equal(t, "PAY", projects[0].Key)
}

func TestGetTicket_BareBody(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/t-1", r.URL.Path)
		fmt.Fprint(w, `{"id":"t-1","title":"Fix login bug","status":"TODO","priority":"MEDIUM","projectId":"p-1"}`)
	}))

	ticket, err := client.GetTicket(t.Context(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Fix login bug", ticket.Title)
	assert.Equal(t, tracker.StatusTodo, ticket.Status)
}

func TestListTickets_FilterQueryParams(t *testing.T) {
	var captured string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.RawQuery
		fmt.Fprint(w, `{"items":[],"total":0,"page":1,"pageSize":20}`)
	}))

	_, err := client.ListTickets(t.Context(), tracker.Filter{
		ProjectID: "p-1",
		Status:    tracker.StatusBlocked,
		Priority:  tracker.PriorityHigh,
		Search:    "login",
		Limit:     5,
	})
	require.NoError(t, err)

	assert.Contains(t, captured, "projectId=p-1")
	assert.Contains(t, captured, "status=BLOCKED")
	assert.Contains(t, captured, "priority=HIGH")
	assert.Contains(t, captured, "search=login")
	assert.Contains(t, captured, "limit=5")
	assert.NotContains(t, captured, "page=")
}

func TestDo_NonOKStatusBecomesAPIError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetTicket(t.Context(), "missing")
	require.Error(t, err)

	var apiErr *tracker.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.True(t, apiErr.NotFound())
	assert.Contains(t, apiErr.Error(), "ticket not found")
}

func TestUpdateTicket_OmitsNilFields(t *testing.T) {
	var body map[string]any
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"data":{"id":"t-1","title":"New title","status":"TODO","priority":"HIGH","projectId":"p-1"}}`)
	}))

	title := "New title"
	priority := tracker.PriorityHigh
	_, err := client.UpdateTicket(t.Context(), "t-1", tracker.UpdateTicket{
		Title:    &title,
		Priority: &priority,
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", body["title"])
	assert.Equal(t, "HIGH", body["priority"])
	assert.NotContains(t, body, "description")
	assert.NotContains(t, body, "status")
	assert.NotContains(t, body, "assigneeId")
}

func TestMoveTicket_PatchesReorderEndpoint(t *testing.T) {
	var method, path string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		fmt.Fprint(w, `{"id":"t-1","title":"Fix login bug","status":"DONE","priority":"MEDIUM","projectId":"p-1"}`)
	}))

	status := tracker.StatusDone
	ticket, err := client.MoveTicket(t.Context(), "t-1", tracker.Move{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/tickets/t-1/reorder", path)
	assert.Equal(t, tracker.StatusDone, ticket.Status)
}

// boardBackend serves two projects and counts the list queries issued per
// (project, status) pair.
type boardBackend struct {
	mu      sync.Mutex
	queries map[string]int
}

func (b *boardBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/projects":
		fmt.Fprint(w, `{"data":[{"id":"p-1","name":"Payments","key":"PAY"},{"id":"p-2","name":"Frontend","key":"FRNT"}]}`)
	case "/tickets":
		b.mu.Lock()
		key := r.URL.Query().Get("projectId") + "/" + r.URL.Query().Get("status")
		b.queries[key]++
		b.mu.Unlock()

		total := 0
		if r.URL.Query().Get("projectId") == "p-1" && r.URL.Query().Get("status") == "TODO" {
			total = 7
		}
		fmt.Fprintf(w, `{"items":[],"total":%d,"page":1,"pageSize":1}`, total)
	default:
		http.NotFound(w, r)
	}
}

func TestBoardSummary_AllProjects(t *testing.T) {
	backend := &boardBackend{queries: make(map[string]int)}
	client := newClient(t, backend)

	report, err := client.BoardSummary(t.Context(), "")
	require.NoError(t, err)

	require.Len(t, report.Projects, 2)
	assert.Equal(t, 2, report.TotalProjects)

	// Exactly one count query per (project, status) pair: 4 x 2 in total.
	assert.Len(t, backend.queries, 8)
	for key, n := range backend.queries {
		assert.Equal(t, 1, n, "query %s issued %d times", key, n)
	}

	first := report.Projects[0]
	assert.Equal(t, "p-1", first.ProjectID)
	assert.Equal(t, "PAY", first.ProjectKey)
	assert.Equal(t, 7, first.Todo)
	assert.Zero(t, first.InProgress)
	assert.Zero(t, first.Done)
	assert.Zero(t, first.Blocked)
}

func TestBoardSummary_SingleProject(t *testing.T) {
	var listProjectCalls int
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			listProjectCalls++
			http.Error(w, "unexpected", http.StatusInternalServerError)
		case "/projects/p-9":
			fmt.Fprint(w, `{"data":{"id":"p-9","name":"Infra","key":"INF"}}`)
		case "/tickets":
			fmt.Fprint(w, `{"items":[],"total":3,"page":1,"pageSize":1}`)
		default:
			http.NotFound(w, r)
		}
	}))

	report, err := client.BoardSummary(t.Context(), "p-9")
	require.NoError(t, err)

	assert.Zero(t, listProjectCalls)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, 3, report.Projects[0].Todo)
	assert.Equal(t, 3, report.Projects[0].Blocked)
}

func TestAuthToken_SentAsBearer(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client := tracker.NewClient(tracker.Config{BaseURL: server.URL, AuthToken: "secret"})
	_, err := client.ListProjects(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestStatusAndPriorityValidity(t *testing.T) {
	assert.True(t, tracker.StatusInProgress.Valid())
	assert.False(t, tracker.Status("WAITING").Valid())
	assert.True(t, tracker.PriorityCritical.Valid())
	assert.False(t, tracker.Priority("urgent").Valid())
}

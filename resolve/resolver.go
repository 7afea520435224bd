// Package resolve maps loosely specified references — a name, a key, or a
// partial title — onto canonical backend identifiers. Every resolution issues
// fresh backend reads: identifiers must reflect current state, never a cached
// snapshot.
package resolve

import (
	"context"
	"strings"

	"github.com/taskboard/assistant/tracker"
)

// References at least this long that contain a separator are assumed to be
// canonical identifiers already. A heuristic proxy for "looks like a UUID",
// not a format validation.
const canonicalIDMinLength = 30

// State classifies the outcome of a resolution attempt.
type State int

const (
	// Resolved means exactly one identifier was chosen.
	Resolved State = iota
	// NotFound means no backend entity matched the reference.
	NotFound
	// Ambiguous means multiple entities matched and strict mode declined to
	// choose among them.
	Ambiguous
)

// Candidate is one entity that matched a reference.
type Candidate struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Resolution is the transient outcome of resolving one reference. It is never
// persisted; backend state may change between turns.
type Resolution struct {
	State      State
	ID         string
	Candidates []Candidate
}

// Resolver resolves project and ticket references against the backend.
type Resolver struct {
	client *tracker.Client
}

// New creates a Resolver backed by the given client.
func New(client *tracker.Client) *Resolver {
	return &Resolver{client: client}
}

// IsCanonicalID reports whether ref is identifier-shaped and can skip
// resolution entirely.
func IsCanonicalID(ref string) bool {
	return strings.Contains(ref, "-") && len(ref) >= canonicalIDMinLength
}

// Project resolves a project reference to an identifier. Matching is a
// case-insensitive substring match on the name or an exact case-insensitive
// match on the key; the first match in backend order wins.
func (r *Resolver) Project(ctx context.Context, ref string) (Resolution, error) {
	return r.project(ctx, ref, false)
}

// ProjectStrict behaves like Project but reports Ambiguous instead of
// silently picking the first of several matches.
func (r *Resolver) ProjectStrict(ctx context.Context, ref string) (Resolution, error) {
	return r.project(ctx, ref, true)
}

func (r *Resolver) project(ctx context.Context, ref string, strict bool) (Resolution, error) {
	if IsCanonicalID(ref) {
		return Resolution{State: Resolved, ID: ref}, nil
	}

	projects, err := r.client.ListProjects(ctx)
	if err != nil {
		return Resolution{}, err
	}

	needle := strings.ToLower(ref)
	var matches []Candidate
	for _, project := range projects {
		if strings.Contains(strings.ToLower(project.Name), needle) ||
			strings.EqualFold(project.Key, ref) {
			matches = append(matches, Candidate{ID: project.ID, Label: project.Name})
			if !strict {
				break
			}
		}
	}

	return resolutionFromMatches(matches, strict), nil
}

// Ticket resolves a ticket reference to an identifier, optionally scoped to a
// project. The backend's text search pre-filters candidates; a local
// case-insensitive substring match on the title re-ranks them. When no title
// contains the reference the backend-first search hit is used.
func (r *Resolver) Ticket(ctx context.Context, ref, projectID string) (Resolution, error) {
	return r.ticket(ctx, ref, projectID, false)
}

// TicketStrict behaves like Ticket but reports Ambiguous when several titles
// contain the reference.
func (r *Resolver) TicketStrict(ctx context.Context, ref, projectID string) (Resolution, error) {
	return r.ticket(ctx, ref, projectID, true)
}

func (r *Resolver) ticket(ctx context.Context, ref, projectID string, strict bool) (Resolution, error) {
	if IsCanonicalID(ref) {
		return Resolution{State: Resolved, ID: ref}, nil
	}

	tickets, err := r.client.SearchTickets(ctx, ref, projectID, 5)
	if err != nil {
		return Resolution{}, err
	}
	if len(tickets) == 0 {
		return Resolution{State: NotFound}, nil
	}

	needle := strings.ToLower(ref)
	var matches []Candidate
	for _, ticket := range tickets {
		if strings.Contains(strings.ToLower(ticket.Title), needle) {
			matches = append(matches, Candidate{ID: ticket.ID, Label: ticket.Title})
			if !strict {
				break
			}
		}
	}

	if len(matches) == 0 {
		// Search matched on description only; trust the backend's ranking.
		return Resolution{State: Resolved, ID: tickets[0].ID}, nil
	}
	return resolutionFromMatches(matches, strict), nil
}

func resolutionFromMatches(matches []Candidate, strict bool) Resolution {
	switch {
	case len(matches) == 0:
		return Resolution{State: NotFound}
	case strict && len(matches) > 1:
		return Resolution{State: Ambiguous, Candidates: matches}
	default:
		return Resolution{State: Resolved, ID: matches[0].ID, Candidates: matches}
	}
}

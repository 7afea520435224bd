// Package tools holds the catalog of backend-backed operations exposed to the
// reasoning engine: a registry of named tools with typed parameter schemas,
// and the twelve ticket/project operations registered on it.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/taskboard/assistant/core/protocol"
)

// Handler is the function signature for tool implementations. Handlers
// receive the request context and JSON-encoded arguments. A returned error is
// recovered at the registry boundary and converted into a failure envelope —
// it never propagates to the engine as an exception.
type Handler func(ctx context.Context, args json.RawMessage) (protocol.Envelope, error)

type entry struct {
	tool    protocol.Tool
	handler Handler
}

// Registry maps tool names to their definitions and handlers. Registries are
// constructed per service instance and injected where needed; there is no
// global registry. Safe for concurrent use.
type Registry struct {
	entries map[string]entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a new tool. Returns ErrAlreadyExists if the name is taken;
// use Replace to swap an existing tool's handler.
func (r *Registry) Register(tool protocol.Tool, handler Handler) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, tool.Name)
	}

	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	return nil
}

// Replace updates an existing tool's definition and handler.
// Returns ErrNotFound if no tool with the given name is registered.
func (r *Registry) Replace(tool protocol.Tool, handler Handler) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, tool.Name)
	}

	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	return nil
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[name]
	if !exists {
		return nil, false
	}
	return e.handler, true
}

// List returns the definitions of all registered tools, sorted by name.
func (r *Registry) List() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog := make([]protocol.Tool, 0, len(r.entries))
	for _, e := range r.entries {
		catalog = append(catalog, e.tool)
	}
	sort.Slice(catalog, func(i, j int) bool {
		return catalog[i].Name < catalog[j].Name
	})
	return catalog
}

// Execute dispatches an invocation to the registered handler and recovers
// every failure — unknown tool, malformed arguments, handler error — into
// the uniform envelope. The engine only understands the envelope, not
// errors, so nothing raises past this boundary.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) protocol.Envelope {
	r.mu.RLock()
	e, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		return protocol.Fail("unknown tool: %s", name)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return protocol.Fail("invalid arguments for %s: %s", name, err)
	}

	env, err := e.handler(ctx, raw)
	if err != nil {
		return protocol.Fail("%s", err)
	}
	return env
}

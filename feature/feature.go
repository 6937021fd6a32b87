// Package feature packages ready-to-run conversation shapes. A feature is a
// named factory: given seed values from the request, it builds a fresh
// GroupChat (agents, selection policy, termination, final-answer rule) and
// the seed message that starts the conversation. Features never share state
// between runs.
package feature

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
)

// Feature is a named conversation blueprint.
type Feature struct {
	// Name identifies the feature in the HTTP path.
	Name string

	// Description is a one-line summary for listings.
	Description string

	// Build constructs a fresh chat and seed message from request values.
	Build func(seed map[string]any) (*chat.GroupChat, core.Message, error)
}

// Registry maps feature names to blueprints. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// NewRegistry creates an empty feature registry.
func NewRegistry() *Registry {
	return &Registry{features: make(map[string]*Feature)}
}

// Register adds a feature. Re-registering a name replaces the blueprint.
func (r *Registry) Register(f *Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.features[f.Name] = f
}

// Get returns the named feature.
func (r *Registry) Get(name string) (*Feature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.features[name]
	if !ok {
		return nil, fmt.Errorf("unknown feature %q", name)
	}

	return f, nil
}

// Names returns all registered feature names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.features))
	for name := range r.features {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// seedString extracts a required string value from the seed.
func seedString(seed map[string]any, key string) (string, error) {
	v, ok := seed[key]
	if !ok {
		return "", fmt.Errorf("seed value %q is required", key)
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("seed value %q must be a non-empty string", key)
	}

	return s, nil
}

package driver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/chatmesh/bridge"
)

// ErrConversationNotFound is returned for lookups of unknown or already
// finished conversations.
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is the registry's view of one running conversation: enough to
// route human input to it and to cancel it, nothing more.
type Conversation struct {
	ID        string
	Feature   string
	Bridge    *bridge.QueueBridge
	StartedAt time.Time

	cancel context.CancelFunc
}

// Cancel aborts the conversation's background task.
func (c *Conversation) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Registry tracks live conversations so the HTTP layer can route human input
// by conversation ID. Entries are removed as soon as the conversation
// finishes.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conversations: make(map[string]*Conversation)}
}

// Register adds a conversation under its ID.
func (r *Registry) Register(c *Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conversations[c.ID] = c
}

// Get returns the live conversation with the given ID.
func (r *Registry) Get(id string) (*Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}

	return c, nil
}

// Remove drops a finished conversation. Unknown IDs are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, id)
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conversations)
}

package core

import "context"

// CallPool bounds the number of outbound model/tool calls executing at once
// across all conversations in the process. Individual conversations are
// strictly sequential internally, so the pool only matters when several
// conversations (or nested sub-chats) run concurrently.
type CallPool struct {
	sem chan struct{}
}

// NewCallPool creates a pool permitting at most size concurrent calls.
// If size <= 0, a default of 8 is used.
func NewCallPool(size int) *CallPool {
	if size <= 0 {
		size = 8
	}

	return &CallPool{sem: make(chan struct{}, size)}
}

// Do acquires a pool slot, runs fn, and releases the slot. It returns the
// context error if cancellation occurs before a slot is available; fn itself
// is expected to honor ctx for its own cancellation.
func (p *CallPool) Do(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.sem <- struct{}{}:
	}

	defer func() { <-p.sem }()

	return fn()
}

// Size returns the maximum number of concurrent calls.
func (p *CallPool) Size() int { return cap(p.sem) }

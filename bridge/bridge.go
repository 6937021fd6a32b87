// Package bridge decouples the synchronous turn-taking loop of a conversation
// from the concurrency model of an HTTP server. Every conversation owns
// exactly one QueueBridge: an outbound queue mirroring the transcript for
// external observers, and an inbound queue carrying optional human replies
// back into the conversation. The bridge is always threaded through
// constructors explicitly so concurrent conversations can never cross-talk.
package bridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/logging"
)

// ErrNoHumanInput is returned when a human-input read expires without a reply.
var ErrNoHumanInput = errors.New("no human input received")

// ErrBridgeClosed is returned when pushing input into a finished conversation.
var ErrBridgeClosed = errors.New("bridge is closed")

// Options configures a QueueBridge.
type Options struct {
	// OutboundBuffer sets the outbound queue capacity. The queue is
	// unbounded in practice: it must comfortably hold every envelope of a
	// capped conversation so the producing loop never blocks on a slow
	// consumer.
	OutboundBuffer int

	// InboundBuffer sets the inbound (human reply) queue capacity.
	InboundBuffer int

	// Logger receives dropped-envelope warnings. Defaults to NoOp.
	Logger logging.Logger
}

// QueueBridge couples one conversation to its external observer.
//
// Contract: the turn-taking loop publishes every received message onto the
// outbound queue *before* the reply is computed, so emission order is exactly
// turn order. Publish failures (consumer gone, bridge closed, buffer full)
// are logged and swallowed; observability failure must never abort the
// underlying conversation.
type QueueBridge struct {
	logger logging.Logger

	mu       sync.Mutex
	closed   bool
	outbound chan core.Envelope
	inbound  chan string
}

// New constructs a QueueBridge with optional overrides.
func New(optFns ...func(o *Options)) *QueueBridge {
	opts := Options{
		OutboundBuffer: 256,
		InboundBuffer:  16,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	// One slot on top of the configured capacity is reserved for the
	// sentinel, so a backlogged consumer can delay completion but never
	// lose it.
	return &QueueBridge{
		logger:   opts.Logger,
		outbound: make(chan core.Envelope, opts.OutboundBuffer+1),
		inbound:  make(chan string, opts.InboundBuffer),
	}
}

// Publish mirrors a conversation message onto the outbound queue. It never
// blocks and never fails the caller: a closed bridge or a full buffer drops
// the envelope with a warning.
func (b *QueueBridge) Publish(msg core.Message) {
	b.publish(core.NewEnvelope(msg.Sender, msg.Content))
}

func (b *QueueBridge) publish(env core.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.logger.Warn("outbound publish dropped", "reason", "closed", "sender", env.Sender)
		return
	}

	// Ordinary envelopes never take the reserved sentinel slot.
	if len(b.outbound) >= cap(b.outbound)-1 {
		b.logger.Warn("outbound publish dropped", "reason", "buffer_full", "sender", env.Sender)
		return
	}

	b.outbound <- env
}

// Complete publishes the terminal sentinel carrying the conversation result
// and closes the outbound queue. Safe to call once; later calls are no-ops.
func (b *QueueBridge) Complete(result *core.ConversationResult) {
	b.finish(core.NewSentinel(result))
}

// Fail publishes an error-typed sentinel and closes the outbound queue. Used
// when the conversation task dies before producing a result, so streaming
// consumers see an explicit error chunk instead of a silently truncated
// stream.
func (b *QueueBridge) Fail(err error) {
	b.finish(core.NewErrorSentinel(err))
}

func (b *QueueBridge) finish(sentinel core.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	// The reserved slot guarantees room: publish leaves at least one free
	// and finish runs at most once.
	b.outbound <- sentinel

	close(b.outbound)
}

// Close releases both queues without a sentinel. Used on cancellation, when
// no consumer is waiting for a result anymore.
func (b *QueueBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	close(b.outbound)
}

// Outbound returns the receive side of the outbound queue. The channel is
// closed after the sentinel (or on Close).
func (b *QueueBridge) Outbound() <-chan core.Envelope {
	return b.outbound
}

// PushHumanInput appends a human reply to the inbound queue.
func (b *QueueBridge) PushHumanInput(input string) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()

	if closed {
		return ErrBridgeClosed
	}

	select {
	case b.inbound <- input:
		return nil
	default:
		return errors.New("inbound queue full")
	}
}

// AwaitHumanInput blocks until a human reply arrives, the timeout expires, or
// ctx is cancelled. This is the single suspension point a conversation
// exposes to the outside world. A zero timeout performs a non-blocking read
// (used by tests and fully autonomous features); a negative timeout waits
// until cancellation.
func (b *QueueBridge) AwaitHumanInput(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout == 0 {
		select {
		case input := <-b.inbound:
			return input, nil
		default:
			return "", ErrNoHumanInput
		}
	}

	if timeout < 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case input := <-b.inbound:
			return input, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ErrNoHumanInput
	case input := <-b.inbound:
		return input, nil
	}
}

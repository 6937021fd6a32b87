// Package driver runs conversations as background tasks and bridges them back
// to synchronous callers: it launches the turn loop in a goroutine, finishes
// the outbound stream with a sentinel, tracks live conversations for human
// input routing, and extracts final results from envelope streams.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/chatmesh/bridge"
	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/logging"
)

// Options configures a Driver.
type Options struct {
	// Pool bounds concurrent model/tool calls across all conversations.
	Pool *core.CallPool

	// MaxDepth bounds nested sub-chat recursion.
	MaxDepth int

	// OutboundBuffer sizes each conversation's outbound queue.
	OutboundBuffer int

	// Logger receives lifecycle events. Defaults to NoOp.
	Logger logging.Logger
}

// Driver owns the conversation lifecycle. One Driver serves the whole
// process; each Launch creates an isolated bridge and group chat, so
// concurrent conversations never share queues or transcripts.
type Driver struct {
	registry *Registry
	pool     *core.CallPool
	maxDepth int
	outBuf   int
	logger   logging.Logger
}

// New constructs a Driver.
func New(optFns ...func(o *Options)) *Driver {
	opts := Options{
		MaxDepth:       3,
		OutboundBuffer: 256,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Pool == nil {
		opts.Pool = core.NewCallPool(0)
	}

	return &Driver{
		registry: NewRegistry(),
		pool:     opts.Pool,
		maxDepth: opts.MaxDepth,
		outBuf:   opts.OutboundBuffer,
		logger:   opts.Logger,
	}
}

// Launch starts the conversation in a background goroutine and returns
// immediately. The caller consumes the conversation through the returned
// Conversation's bridge; the stream always ends with a sentinel (result or
// error) unless ctx is cancelled first, in which case the outbound queue is
// simply closed.
func (d *Driver) Launch(ctx context.Context, feature string, g *chat.GroupChat, seed core.Message) *Conversation {
	runCtx, cancel := context.WithCancel(ctx)

	qb := bridge.New(func(o *bridge.Options) {
		o.OutboundBuffer = d.outBuf
		o.Logger = d.logger
	})

	conv := &Conversation{
		ID:        core.NewID(),
		Feature:   feature,
		Bridge:    qb,
		StartedAt: time.Now().UTC(),
		cancel:    cancel,
	}
	d.registry.Register(conv)

	mgr := chat.NewManager(g, qb, func(o *chat.ManagerOptions) {
		o.Pool = d.pool
		o.MaxDepth = d.maxDepth
		o.Logger = d.logger
	})

	go func() {
		defer cancel()
		defer d.registry.Remove(conv.ID)

		result, err := mgr.Run(runCtx, seed)

		switch {
		case result != nil:
			// Fatal-but-partial outcomes (recursion limit) still complete
			// the stream: callers get finalText null plus the history.
			if err != nil {
				d.logger.Warn("conversation finished with error", "conversation_id", conv.ID, "feature", feature, "error", err.Error())
			}
			qb.Complete(result)
		case errors.Is(err, context.Canceled):
			d.logger.Info("conversation cancelled", "conversation_id", conv.ID, "feature", feature)
			qb.Close()
		default:
			d.logger.Error("conversation failed", "conversation_id", conv.ID, "feature", feature, "error", err.Error())
			qb.Fail(err)
		}
	}()

	return conv
}

// PushInput routes human input to a live conversation by ID.
func (d *Driver) PushInput(id, input string) error {
	conv, err := d.registry.Get(id)
	if err != nil {
		return err
	}

	return conv.Bridge.PushHumanInput(input)
}

// Cancel aborts a live conversation by ID.
func (d *Driver) Cancel(id string) error {
	conv, err := d.registry.Get(id)
	if err != nil {
		return err
	}

	conv.Cancel()

	return nil
}

// Live returns the number of running conversations.
func (d *Driver) Live() int { return d.registry.Len() }

package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/chatmesh/core"
)

// ErrStreamTruncated is returned when an outbound queue closes without a
// sentinel, which happens when a conversation is cancelled mid-run.
var ErrStreamTruncated = errors.New("stream closed without a result")

// CollectOptions configures Collect.
type CollectOptions struct {
	// OnEnvelope is invoked for every envelope, sentinel included, in
	// stream order. Used to tee envelopes into a tape or an HTTP response
	// while still collecting the result.
	OnEnvelope func(env core.Envelope)
}

// Collect drains an outbound queue until the sentinel and returns the
// conversation result it carries. An error-typed sentinel becomes an error;
// so does a queue that closes with no sentinel at all.
func Collect(ctx context.Context, out <-chan core.Envelope, optFns ...func(o *CollectOptions)) (*core.ConversationResult, error) {
	opts := CollectOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case env, ok := <-out:
			if !ok {
				return nil, ErrStreamTruncated
			}

			if opts.OnEnvelope != nil {
				opts.OnEnvelope(env)
			}

			if !env.IsSentinel() {
				continue
			}

			if env.Error != "" {
				return nil, fmt.Errorf("conversation failed: %s", env.Error)
			}

			return env.Result, nil
		}
	}
}

// Replay extracts the conversation result from a recorded envelope log. The
// extraction is pure: replaying the same tape any number of times yields the
// same result. Envelopes after the first sentinel are ignored.
func Replay(tape []core.Envelope) (*core.ConversationResult, error) {
	for _, env := range tape {
		if !env.IsSentinel() {
			continue
		}

		if env.Error != "" {
			return nil, fmt.Errorf("conversation failed: %s", env.Error)
		}

		return env.Result, nil
	}

	return nil, ErrStreamTruncated
}

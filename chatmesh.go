// Package chatmesh provides a high-level façade over the conversation driver,
// the feature registry, and the HTTP surface, enabling rapid construction of
// multi-agent group-chat services. Most applications interact with this
// package by:
//  1. Creating a Mesh via New() (optionally overriding pool size, depth, logger)
//  2. Registering one or more features (translation, newsletter, mail, custom)
//  3. Running conversations synchronously (RunSync) or as streams (RunStream),
//     or mounting Handler() into an HTTP server
//
// The façade delegates turn-taking to chat.Manager via driver.Driver while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development and testing.
package chatmesh

import (
	"context"
	"net/http"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/driver"
	"github.com/hupe1980/chatmesh/feature"
	"github.com/hupe1980/chatmesh/httpapi"
	"github.com/hupe1980/chatmesh/logging"
)

// Options configures the Mesh instance.
type Options struct {
	// PoolSize limits concurrent model/tool calls across all conversations.
	// This prevents resource exhaustion and provides backpressure.
	PoolSize int

	// MaxNestedDepth bounds sub-conversation recursion.
	MaxNestedDepth int

	// OutboundBuffer sets the per-conversation outbound queue capacity.
	// Larger buffers tolerate slower stream consumers.
	OutboundBuffer int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the high-level façade aggregating the driver and feature registry.
type Mesh struct {
	features *feature.Registry
	driver   *driver.Driver
	logger   logging.Logger
}

// New creates a Mesh with optional overrides.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		PoolSize:       8,
		MaxNestedDepth: 3,
		OutboundBuffer: 256,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	drv := driver.New(func(o *driver.Options) {
		o.Pool = core.NewCallPool(opts.PoolSize)
		o.MaxDepth = opts.MaxNestedDepth
		o.OutboundBuffer = opts.OutboundBuffer
		o.Logger = opts.Logger
	})

	return &Mesh{
		features: feature.NewRegistry(),
		driver:   drv,
		logger:   opts.Logger,
	}
}

// Register adds a feature to the mesh.
func (m *Mesh) Register(f *feature.Feature) { m.features.Register(f) }

// Features returns the registered feature names.
func (m *Mesh) Features() []string { return m.features.Names() }

// RunSync builds the named feature from the seed, runs the conversation to
// termination, and returns its result. Conversations that end without a
// recognizable final answer return a result with a nil FinalText.
func (m *Mesh) RunSync(ctx context.Context, featureName string, seed map[string]any) (*core.ConversationResult, error) {
	conv, err := m.start(ctx, featureName, seed)
	if err != nil {
		return nil, err
	}

	return driver.Collect(ctx, conv.Bridge.Outbound())
}

// RunStream starts the conversation in the background and returns its handle.
// The caller consumes envelopes from the handle's bridge; the stream ends with
// the sentinel. Cancelling ctx aborts the conversation.
func (m *Mesh) RunStream(ctx context.Context, featureName string, seed map[string]any) (*driver.Conversation, error) {
	return m.start(ctx, featureName, seed)
}

// PushInput routes human input to a running conversation.
func (m *Mesh) PushInput(conversationID, input string) error {
	return m.driver.PushInput(conversationID, input)
}

// Handler returns the HTTP surface for the mesh.
func (m *Mesh) Handler() http.Handler {
	return httpapi.NewServer(m.features, m.driver, func(o *httpapi.Options) {
		o.Logger = m.logger
	}).Router()
}

func (m *Mesh) start(ctx context.Context, featureName string, seed map[string]any) (*driver.Conversation, error) {
	feat, err := m.features.Get(featureName)
	if err != nil {
		return nil, err
	}

	g, seedMsg, err := feat.Build(seed)
	if err != nil {
		return nil, err
	}

	return m.driver.Launch(ctx, featureName, g, seedMsg), nil
}

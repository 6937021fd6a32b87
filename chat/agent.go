package chat

import (
	"time"

	"github.com/hupe1980/chatmesh/core"
)

// AgentOptions configures an Agent.
type AgentOptions struct {
	// Description is shown to model-driven speaker selectors.
	Description string

	// Interactive marks the agent as a human proxy: instead of running a
	// reply strategy, the conversation suspends and waits for input pushed
	// through the bridge.
	Interactive bool

	// InputTimeout bounds how long an interactive agent waits for human
	// input. Zero performs a non-blocking check; negative waits until the
	// conversation context is cancelled.
	InputTimeout time.Duration

	// Nested binds a sub-conversation to this agent. When the trigger
	// matches an incoming message, the agent's reply is the summary of a
	// freshly run sub-chat instead of a strategy output.
	Nested *NestedChatSpec
}

// Agent is one named participant of a group chat. Agents are plain data plus
// a reply strategy; all turn-taking, publication, and error substitution is
// owned by the Manager, so an Agent never touches queues or transcripts
// directly.
type Agent struct {
	name         string
	description  string
	strategy     ReplyStrategy
	interactive  bool
	inputTimeout time.Duration
	nested       *NestedChatSpec
}

// NewAgent constructs an Agent. The name must be unique within a chat and
// must not collide with the reserved sentinel sender.
func NewAgent(name string, strategy ReplyStrategy, optFns ...func(o *AgentOptions)) *Agent {
	opts := AgentOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		name:         name,
		description:  opts.Description,
		strategy:     strategy,
		interactive:  opts.Interactive,
		inputTimeout: opts.InputTimeout,
		nested:       opts.Nested,
	}
}

// Name returns the agent's unique name within its chat.
func (a *Agent) Name() string { return a.name }

// Description returns the short description used for speaker selection.
func (a *Agent) Description() string { return a.description }

// Interactive reports whether the agent proxies a human.
func (a *Agent) Interactive() bool { return a.interactive }

// validName rejects names that would collide with stream framing.
func validName(name string) bool {
	return name != "" && name != core.SentinelSender
}

package chat

import (
	"fmt"

	"github.com/hupe1980/chatmesh/core"
)

// FinalAnswer declares how a conversation's final text is extracted from the
// frozen transcript. The zero value takes the last message verbatim.
type FinalAnswer struct {
	// FromAgent names the agent whose most recent message is authoritative.
	// Empty means the last message of the conversation.
	FromAgent string

	// StripToken is removed from the extracted text (termination markers
	// like "TERMINATE" are control flow, not content).
	StripToken string
}

// GroupChatOptions configures a GroupChat.
type GroupChatOptions struct {
	// Selector picks the next speaker each turn. Defaults to round-robin.
	Selector SpeakerSelector

	// Terminate ends the conversation early when a reply matches.
	// Defaults to never, leaving the turn cap as the only stop.
	Terminate TerminationPredicate

	// TurnCap is the hard upper bound on agent turns. Defaults to 12.
	TurnCap int

	// FinalAnswer controls result extraction after termination.
	FinalAnswer FinalAnswer
}

// GroupChat is the static shape of one conversation: the agent roster, the
// turn-taking policy, and a fresh transcript. A GroupChat instance belongs to
// exactly one conversation run; factories construct a new one per request.
type GroupChat struct {
	agents      []*Agent
	transcript  *core.Transcript
	selector    SpeakerSelector
	terminate   TerminationPredicate
	turnCap     int
	finalAnswer FinalAnswer
}

// NewGroupChat validates the roster and constructs a conversation shape.
func NewGroupChat(agents []*Agent, optFns ...func(o *GroupChatOptions)) (*GroupChat, error) {
	opts := GroupChatOptions{
		Selector:  NewRoundRobinSelector(),
		Terminate: Never(),
		TurnCap:   12,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(agents) == 0 {
		return nil, fmt.Errorf("group chat needs at least one agent")
	}

	seen := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		if !validName(a.Name()) {
			return nil, fmt.Errorf("invalid agent name %q", a.Name())
		}
		if _, dup := seen[a.Name()]; dup {
			return nil, fmt.Errorf("duplicate agent name %q", a.Name())
		}
		seen[a.Name()] = struct{}{}
	}

	if opts.FinalAnswer.FromAgent != "" {
		if _, ok := seen[opts.FinalAnswer.FromAgent]; !ok {
			return nil, fmt.Errorf("final answer agent %q is not in the roster", opts.FinalAnswer.FromAgent)
		}
	}

	if opts.TurnCap <= 0 {
		opts.TurnCap = 12
	}

	return &GroupChat{
		agents:      agents,
		transcript:  core.NewTranscript(),
		selector:    opts.Selector,
		terminate:   opts.Terminate,
		turnCap:     opts.TurnCap,
		finalAnswer: opts.FinalAnswer,
	}, nil
}

// Agents returns the roster in declaration order.
func (g *GroupChat) Agents() []*Agent { return g.agents }

// Transcript returns the conversation history.
func (g *GroupChat) Transcript() *core.Transcript { return g.transcript }

// TurnCap returns the hard turn limit.
func (g *GroupChat) TurnCap() int { return g.turnCap }

package chat

import (
	"github.com/hupe1980/chatmesh/core"
)

// NestedChatSpec declaratively binds a sub-conversation to a host agent.
// When Trigger matches a message the host agent receives, the Manager runs a
// fresh chat from ChatFactory (sharing the parent's bridge, so external
// observers see nested turns inline) and the Summarizer's digest of the
// sub-transcript becomes the host agent's reply.
type NestedChatSpec struct {
	// Trigger decides whether an incoming message starts the sub-chat.
	// Nil triggers on every message.
	Trigger func(msg core.Message) bool

	// ChatFactory builds the sub-conversation. Called once per trigger so
	// every nested run gets a fresh transcript.
	ChatFactory func() (*GroupChat, error)

	// Seed maps the triggering message to the sub-chat's seed. Nil forwards
	// the triggering message unchanged.
	Seed func(trigger core.Message) core.Message

	// Summarizer folds the nested history into the host agent's reply.
	// Nil takes the sub-chat's final text, falling back to the last
	// message content.
	Summarizer func(result *core.ConversationResult) string
}

func (s *NestedChatSpec) triggered(msg core.Message) bool {
	if s.Trigger == nil {
		return true
	}
	return s.Trigger(msg)
}

func (s *NestedChatSpec) seed(trigger core.Message) core.Message {
	if s.Seed == nil {
		return core.NewUserMessage(trigger.Content)
	}
	return s.Seed(trigger)
}

func (s *NestedChatSpec) summarize(result *core.ConversationResult) string {
	if s.Summarizer != nil {
		return s.Summarizer(result)
	}

	if result.FinalText != nil {
		return *result.FinalText
	}

	if n := len(result.History); n > 0 {
		return result.History[n-1].Content
	}

	return ""
}

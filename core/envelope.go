package core

// SentinelSender is the reserved sender value marking the terminal envelope of
// a conversation stream. No agent may be registered under this name.
const SentinelSender = "__DONE__"

// Envelope is the wire unit observed by external consumers of a conversation.
// Ordinary envelopes marshal to exactly {"sender":...,"content":...} so that
// recorded streams can be replayed bit-exact across implementations; only the
// sentinel carries the additional result or error fields.
type Envelope struct {
	Sender  string              `json:"sender"`
	Content string              `json:"content"`
	Result  *ConversationResult `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// NewEnvelope constructs an ordinary conversation envelope.
func NewEnvelope(sender, content string) Envelope {
	return Envelope{Sender: sender, Content: content}
}

// NewSentinel constructs the terminal envelope carrying the conversation
// result.
func NewSentinel(result *ConversationResult) Envelope {
	return Envelope{Sender: SentinelSender, Result: result}
}

// NewErrorSentinel constructs a terminal envelope for a conversation that
// failed before producing a result.
func NewErrorSentinel(err error) Envelope {
	return Envelope{Sender: SentinelSender, Error: err.Error()}
}

// IsSentinel reports whether this envelope terminates the stream.
func (e Envelope) IsSentinel() bool { return e.Sender == SentinelSender }

// ConversationResult is the final outcome of a conversation. FinalText is nil
// when the conversation terminated without a recognizable final answer
// (turn cap, recursion limit, no authoritative message); callers must treat
// nil as "inspect the history", not as a failure.
type ConversationResult struct {
	FinalText *string   `json:"finalText"`
	History   []Message `json:"history"`
}

// NewConversationResult builds a result from an optional final text and the
// full transcript history.
func NewConversationResult(finalText *string, history []Message) *ConversationResult {
	if history == nil {
		history = []Message{}
	}

	return &ConversationResult{FinalText: finalText, History: history}
}

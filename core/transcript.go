package core

import (
	"errors"
	"sync"
)

// ErrTranscriptFrozen is returned when appending to a terminated conversation.
var ErrTranscriptFrozen = errors.New("transcript is frozen")

// Transcript is the ordered, append-only message history of one GroupChat
// instance (parent or nested). It is safe for concurrent access.
//
// Contract:
//   - Monotonically growing while the conversation runs
//   - Frozen exactly once, when the conversation terminates
//   - Messages / Suffix return defensive copies to avoid external mutation
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	frozen   bool
}

// NewTranscript constructs an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: []Message{}}
}

// Append adds a message to the history. It fails once the transcript has been
// frozen by conversation termination.
func (t *Transcript) Append(msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrTranscriptFrozen
	}

	t.messages = append(t.messages, msg)

	return nil
}

// Messages returns a copy of the full message history.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)

	return out
}

// Len returns the number of messages appended so far.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.messages)
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.messages) == 0 {
		return Message{}, false
	}

	return t.messages[len(t.messages)-1], true
}

// LastFrom returns the most recent message authored by the named sender.
func (t *Transcript) LastFrom(sender string) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Sender == sender {
			return t.messages[i], true
		}
	}

	return Message{}, false
}

// Suffix returns a copy of the last n messages (or all of them when fewer
// exist). Reply strategies receive transcript suffixes, never the transcript
// itself.
func (t *Transcript) Suffix(n int) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > len(t.messages) {
		n = len(t.messages)
	}

	out := make([]Message, n)
	copy(out, t.messages[len(t.messages)-n:])

	return out
}

// Freeze marks the transcript as terminated. Further appends fail. Freeze is
// idempotent.
func (t *Transcript) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frozen = true
}

// Frozen reports whether the conversation has terminated.
func (t *Transcript) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.frozen
}

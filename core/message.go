package core

import (
	"time"

	"github.com/google/uuid"
)

// Role categorizes who produced a message within a conversation.
type Role string

const (
	// RoleUser marks messages injected from outside the conversation
	// (seed prompts and human replies).
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by an agent's reply strategy.
	RoleAssistant Role = "assistant"
	// RoleTool marks messages produced by a tool invocation.
	RoleTool Role = "tool"
)

// Message is the immutable unit of conversation. Once appended to a
// Transcript it is never mutated; senders are agent names (or "user" for
// externally injected input).
type Message struct {
	Sender    string            `json:"sender"`
	Content   string            `json:"content"`
	Role      Role              `json:"role"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewMessage constructs a message stamped with the current UTC time.
func NewMessage(sender, content string, role Role) Message {
	return Message{
		Sender:    sender,
		Content:   content,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage is a convenience constructor for externally supplied input.
func NewUserMessage(content string) Message {
	return NewMessage("user", content, RoleUser)
}

// NewID generates a new unique identifier for conversations.
func NewID() string { return uuid.NewString() }

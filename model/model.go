package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/chatmesh/core"
)

// Request captures the normalized model input produced by reply strategies.
// Messages carry the transcript suffix the speaking agent sees; Instructions
// is the agent's system prompt.
type Request struct {
	Instructions string         `json:"instructions"`
	Messages     []core.Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output for one request.
type Response struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface reply strategies use to drive generation.
// Complete blocks for the duration of the provider call and must honor ctx.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It supports both prompt-keyed canned responses and a scripted sequence
// consumed in order; the script takes precedence when non-empty.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	script    []string
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion keyed by the content
// of the last request message.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Script enqueues responses returned in order regardless of input.
func (m *MockModel) Script(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// FailWith makes every subsequent Complete call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	if len(m.script) > 0 {
		text := m.script[0]
		m.script = m.script[1:]
		return &Response{Text: text}, nil
	}

	var last string
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Content
	}

	if text, ok := m.responses[last]; ok {
		return &Response{Text: text}, nil
	}

	return &Response{Text: fmt.Sprintf("Mock response to: %s", last)}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

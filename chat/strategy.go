package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/model"
	"github.com/hupe1980/chatmesh/tool"
)

// ReplyRequest is the input a reply strategy receives: the speaking agent's
// name and the transcript suffix it is allowed to see.
type ReplyRequest struct {
	Agent    string
	Messages []core.Message
}

// ReplyStrategy produces an agent's next utterance. Implementations must be
// safe for concurrent use; the same strategy instance may back agents in
// parallel conversations.
type ReplyStrategy interface {
	Reply(ctx context.Context, req ReplyRequest) (string, error)
}

// ReplyFunc adapts a plain function to the ReplyStrategy interface.
type ReplyFunc func(ctx context.Context, req ReplyRequest) (string, error)

// Reply implements ReplyStrategy.
func (f ReplyFunc) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	return f(ctx, req)
}

// ModelStrategyOptions configures a ModelStrategy.
type ModelStrategyOptions struct {
	// Window limits how many trailing transcript messages the model sees.
	// Zero means the full transcript.
	Window int
}

// ModelStrategy replies by completing the transcript suffix against a language
// model under fixed instructions.
type ModelStrategy struct {
	model        model.Model
	instructions string
	opts         ModelStrategyOptions
}

// NewModelStrategy constructs a ModelStrategy. Instructions are the agent's
// system prompt, already rendered with any seed values.
func NewModelStrategy(m model.Model, instructions string, optFns ...func(o *ModelStrategyOptions)) *ModelStrategy {
	opts := ModelStrategyOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelStrategy{model: m, instructions: instructions, opts: opts}
}

// Reply implements ReplyStrategy.
func (s *ModelStrategy) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	messages := req.Messages
	if s.opts.Window > 0 && len(messages) > s.opts.Window {
		messages = messages[len(messages)-s.opts.Window:]
	}

	resp, err := s.model.Complete(ctx, model.Request{
		Instructions: s.instructions,
		Messages:     messages,
	})
	if err != nil {
		return "", fmt.Errorf("model completion: %w", err)
	}

	return resp.Text, nil
}

// ToolStrategy replies by invoking a single tool. Arguments are derived from
// the incoming message: either the message content is a JSON object matching
// the tool's schema, or a custom extractor maps the message to arguments.
type ToolStrategy struct {
	tool    tool.Tool
	extract func(last core.Message) (map[string]any, error)
}

// NewToolStrategy constructs a ToolStrategy. When extract is nil, the last
// message content is parsed as a JSON argument object.
func NewToolStrategy(t tool.Tool, extract func(last core.Message) (map[string]any, error)) *ToolStrategy {
	if extract == nil {
		extract = func(last core.Message) (map[string]any, error) {
			var args map[string]any
			if err := json.Unmarshal([]byte(last.Content), &args); err != nil {
				return nil, fmt.Errorf("parse tool arguments: %w", err)
			}
			return args, nil
		}
	}

	return &ToolStrategy{tool: t, extract: extract}
}

// Reply implements ReplyStrategy.
func (s *ToolStrategy) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("tool strategy for %s: no incoming message", req.Agent)
	}

	args, err := s.extract(req.Messages[len(req.Messages)-1])
	if err != nil {
		return "", err
	}

	return s.tool.Call(ctx, args)
}

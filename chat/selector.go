package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/model"
)

// SpeakerSelector picks the next speaker for a turn. Selection sees the agent
// roster in declaration order and the transcript so far.
type SpeakerSelector interface {
	Next(ctx context.Context, agents []*Agent, transcript *core.Transcript) (*Agent, error)
}

// RoundRobinSelector cycles through agents in declaration order. The agent
// following the last speaker goes next; a transcript whose last message came
// from outside the roster (the seed, human input) hands the turn to the first
// agent. Selection is fully deterministic.
type RoundRobinSelector struct{}

// NewRoundRobinSelector constructs a RoundRobinSelector.
func NewRoundRobinSelector() *RoundRobinSelector { return &RoundRobinSelector{} }

// Next implements SpeakerSelector.
func (s *RoundRobinSelector) Next(_ context.Context, agents []*Agent, transcript *core.Transcript) (*Agent, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("no agents registered")
	}

	last, ok := transcript.Last()
	if !ok {
		return agents[0], nil
	}

	for i, a := range agents {
		if a.Name() == last.Sender {
			return agents[(i+1)%len(agents)], nil
		}
	}

	return agents[0], nil
}

// ModelSelectorOptions configures a ModelSelector.
type ModelSelectorOptions struct {
	// Window limits how many trailing messages the selection prompt includes.
	Window int
}

// ModelSelector asks a language model to choose the next speaker based on the
// roster descriptions and recent transcript. When the model's answer does not
// name a registered agent, selection falls back to round-robin so the
// conversation stays deterministic rather than stalling.
type ModelSelector struct {
	model    model.Model
	fallback *RoundRobinSelector
	opts     ModelSelectorOptions
}

// NewModelSelector constructs a ModelSelector.
func NewModelSelector(m model.Model, optFns ...func(o *ModelSelectorOptions)) *ModelSelector {
	opts := ModelSelectorOptions{Window: 8}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelSelector{model: m, fallback: NewRoundRobinSelector(), opts: opts}
}

// Next implements SpeakerSelector.
func (s *ModelSelector) Next(ctx context.Context, agents []*Agent, transcript *core.Transcript) (*Agent, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("no agents registered")
	}

	var roster strings.Builder
	for _, a := range agents {
		fmt.Fprintf(&roster, "- %s: %s\n", a.Name(), a.Description())
	}

	instructions := fmt.Sprintf(
		"You moderate a group conversation. Pick the participant who should speak next.\n"+
			"Participants:\n%s\nAnswer with the participant name only.", roster.String())

	resp, err := s.model.Complete(ctx, model.Request{
		Instructions: instructions,
		Messages:     transcript.Suffix(s.opts.Window),
	})
	if err != nil {
		return s.fallback.Next(ctx, agents, transcript)
	}

	choice := strings.TrimSpace(resp.Text)
	for _, a := range agents {
		if strings.EqualFold(a.Name(), choice) {
			return a, nil
		}
	}

	return s.fallback.Next(ctx, agents, transcript)
}

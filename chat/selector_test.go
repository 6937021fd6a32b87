package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/model"
)

func TestRoundRobinSelector_CyclesInDeclarationOrder(t *testing.T) {
	agents := []*Agent{echoAgent("A"), echoAgent("B"), echoAgent("C")}
	transcript := core.NewTranscript()
	selector := NewRoundRobinSelector()

	next, err := selector.Next(context.Background(), agents, transcript)
	require.NoError(t, err)
	assert.Equal(t, "A", next.Name())

	require.NoError(t, transcript.Append(core.NewMessage("A", "hi", core.RoleAssistant)))
	next, _ = selector.Next(context.Background(), agents, transcript)
	assert.Equal(t, "B", next.Name())

	require.NoError(t, transcript.Append(core.NewMessage("C", "hi", core.RoleAssistant)))
	next, _ = selector.Next(context.Background(), agents, transcript)
	assert.Equal(t, "A", next.Name())
}

func TestRoundRobinSelector_SeedHandsTurnToFirstAgent(t *testing.T) {
	agents := []*Agent{echoAgent("A"), echoAgent("B")}
	transcript := core.NewTranscript()
	require.NoError(t, transcript.Append(core.NewUserMessage("Hello")))

	next, err := NewRoundRobinSelector().Next(context.Background(), agents, transcript)
	require.NoError(t, err)
	assert.Equal(t, "A", next.Name())
}

func TestModelSelector_PicksNamedAgent(t *testing.T) {
	m := model.NewMockModel("selector")
	m.Script("B")

	agents := []*Agent{echoAgent("A"), echoAgent("B")}
	transcript := core.NewTranscript()
	require.NoError(t, transcript.Append(core.NewUserMessage("Hello")))

	next, err := NewModelSelector(m).Next(context.Background(), agents, transcript)
	require.NoError(t, err)
	assert.Equal(t, "B", next.Name())
}

func TestModelSelector_FallsBackOnUnknownName(t *testing.T) {
	m := model.NewMockModel("selector")
	m.Script("Nobody")

	agents := []*Agent{echoAgent("A"), echoAgent("B")}
	transcript := core.NewTranscript()
	require.NoError(t, transcript.Append(core.NewUserMessage("Hello")))

	next, err := NewModelSelector(m).Next(context.Background(), agents, transcript)
	require.NoError(t, err)
	assert.Equal(t, "A", next.Name())
}

func TestModelSelector_FallsBackOnModelError(t *testing.T) {
	m := model.NewMockModel("selector")
	m.FailWith(assert.AnError)

	agents := []*Agent{echoAgent("A"), echoAgent("B")}
	transcript := core.NewTranscript()
	require.NoError(t, transcript.Append(core.NewMessage("A", "hi", core.RoleAssistant)))

	next, err := NewModelSelector(m).Next(context.Background(), agents, transcript)
	require.NoError(t, err)
	assert.Equal(t, "B", next.Name())
}

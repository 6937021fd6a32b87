package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chatmesh/core"
)

func echoAgent(name string) *Agent {
	return NewAgent(name, ReplyFunc(func(_ context.Context, req ReplyRequest) (string, error) {
		return name + " says hi", nil
	}))
}

func TestNewGroupChat_Defaults(t *testing.T) {
	g, err := NewGroupChat([]*Agent{echoAgent("A")})
	require.NoError(t, err)

	assert.Equal(t, 12, g.TurnCap())
	assert.Equal(t, 0, g.Transcript().Len())
}

func TestNewGroupChat_RejectsEmptyRoster(t *testing.T) {
	_, err := NewGroupChat(nil)
	assert.Error(t, err)
}

func TestNewGroupChat_RejectsDuplicateNames(t *testing.T) {
	_, err := NewGroupChat([]*Agent{echoAgent("A"), echoAgent("A")})
	assert.ErrorContains(t, err, "duplicate agent name")
}

func TestNewGroupChat_RejectsSentinelName(t *testing.T) {
	_, err := NewGroupChat([]*Agent{echoAgent(core.SentinelSender)})
	assert.ErrorContains(t, err, "invalid agent name")
}

func TestNewGroupChat_RejectsUnknownFinalAnswerAgent(t *testing.T) {
	_, err := NewGroupChat([]*Agent{echoAgent("A")}, func(o *GroupChatOptions) {
		o.FinalAnswer = FinalAnswer{FromAgent: "Ghost"}
	})
	assert.ErrorContains(t, err, "not in the roster")
}

func TestTerminationPredicates(t *testing.T) {
	msg := core.NewMessage("Critic", "Looks good. TERMINATE", core.RoleAssistant)

	assert.True(t, ContainsToken("TERMINATE")(msg))
	assert.False(t, ContainsToken("REJECTED")(msg))
	assert.False(t, Never()(msg))
	assert.True(t, AnyOf(ContainsToken("REJECTED"), ContainsToken("TERMINATE"))(msg))
}

package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_WireShape(t *testing.T) {
	data, err := json.Marshal(NewEnvelope("Translator", "Bonjour"))
	require.NoError(t, err)

	// Ordinary envelopes must stay bit-exact for replay tooling.
	assert.JSONEq(t, `{"sender":"Translator","content":"Bonjour"}`, string(data))
}

func TestEnvelope_Sentinel(t *testing.T) {
	final := "Bonjour"
	result := NewConversationResult(&final, []Message{NewMessage("Translator", "Bonjour", RoleAssistant)})

	env := NewSentinel(result)
	assert.True(t, env.IsSentinel())
	assert.Equal(t, SentinelSender, env.Sender)
	require.NotNil(t, env.Result)
	assert.Equal(t, "Bonjour", *env.Result.FinalText)
}

func TestEnvelope_ErrorSentinel(t *testing.T) {
	env := NewErrorSentinel(assert.AnError)
	assert.True(t, env.IsSentinel())
	assert.Equal(t, assert.AnError.Error(), env.Error)
	assert.Nil(t, env.Result)
}

func TestNewConversationResult_NilHistory(t *testing.T) {
	result := NewConversationResult(nil, nil)
	assert.Nil(t, result.FinalText)
	assert.NotNil(t, result.History)
	assert.Empty(t, result.History)
}

func TestNewConversationResult_NullFinalTextJSON(t *testing.T) {
	data, err := json.Marshal(NewConversationResult(nil, []Message{}))
	require.NoError(t, err)

	// finalText must serialize as an explicit null, never be omitted.
	assert.Contains(t, string(data), `"finalText":null`)
}

package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chatmesh/core"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("Hello", "Bonjour")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", resp.Text)
}

func TestMockModel_Script(t *testing.T) {
	m := NewMockModel("test-model")
	m.Script("first", "second")

	resp, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test-model")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("anything")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp.Text)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test-model")
	m.FailWith(assert.AnError)

	_, err := m.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMockModel_CancelledContext(t *testing.T) {
	m := NewMockModel("test-model")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, level LogLevel) *ChatMeshLogger {
	return NewLogger(&LoggerConfig{
		Level:     level,
		Format:    "json",
		Output:    buf,
		AddSource: false,
		Component: "driver",
	})
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))

	return entry
}

func TestChatMeshLogger_KeyValueArgsBecomeAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, LogLevelInfo)

	l.Warn("conversation finished with error",
		"conversation_id", "abc123",
		"feature", "translation",
		"error", "boom",
	)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "conversation finished with error", entry["msg"])
	assert.Equal(t, "abc123", entry["conversation_id"])
	assert.Equal(t, "translation", entry["feature"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "driver", entry["component"])
}

func TestChatMeshLogger_MessageNeverFormatted(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, LogLevelInfo)

	l.Info("outbound publish dropped", "reason", "buffer_full", "sender", "Translator")

	entry := lastEntry(t, &buf)
	msg := entry["msg"].(string)
	assert.Equal(t, "outbound publish dropped", msg)
	assert.NotContains(t, msg, "%!")
	assert.Equal(t, "buffer_full", entry["reason"])
	assert.Equal(t, "Translator", entry["sender"])
}

func TestChatMeshLogger_StrayValueKept(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, LogLevelInfo)

	l.Info("odd args", "key", "value", "dangling")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "dangling", entry["arg"])
}

func TestChatMeshLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("visible", "code", 500)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "visible", entry["msg"])
	assert.EqualValues(t, 500, entry["code"])
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(buf.String()), "\n")+1)
}

func TestChatMeshLogger_WithConversation(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, LogLevelInfo).WithConversation("translation", "conv-1")

	l.Info("turn completed", "speaker", "Critic")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "translation", entry["feature"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "Critic", entry["speaker"])
}

package httpapi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/driver"
	"github.com/hupe1980/chatmesh/feature"
	"github.com/hupe1980/chatmesh/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(scripted ...string) *httptest.Server {
	m := model.NewMockModel("m")
	m.Script(scripted...)

	features := feature.NewRegistry()
	features.Register(feature.NewTranslation(m))

	srv := NewServer(features, driver.New())

	return httptest.NewServer(srv.Router())
}

func translationSeed() *bytes.Reader {
	body, _ := json.Marshal(map[string]any{
		"text":         "Hello",
		"languageFrom": "English",
		"languageTo":   "French",
	})
	return bytes.NewReader(body)
}

func TestRunChat_ReturnsResult(t *testing.T) {
	ts := newTestServer("Bonjour", "APPROVED. TERMINATE")
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chats/translation", "application/json", translationSeed())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Conversation-Id"))

	var result core.ConversationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.NotNil(t, result.FinalText)
	assert.Equal(t, "Bonjour", *result.FinalText)
	assert.Len(t, result.History, 3)
}

func TestRunChat_TurnCapIsStillSuccess(t *testing.T) {
	ts := newTestServer("v1", "revise", "v2", "revise", "v3", "revise")
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chats/translation", "application/json", translationSeed())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"finalText":null`)
}

func TestRunChat_UnknownFeature(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chats/nope", "application/json", translationSeed())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunChat_InvalidSeed(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chats/translation", "application/json",
		strings.NewReader(`{"text":"Hello"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamChat_NDJSON(t *testing.T) {
	ts := newTestServer("Bonjour", "APPROVED. TERMINATE")
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chats/translation/stream", "application/json", translationSeed())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 4) // seed, Translator, Critic, sentinel

	// Ordinary envelopes carry exactly sender and content.
	assert.JSONEq(t, `{"sender":"user","content":"Hello"}`, lines[0])
	assert.JSONEq(t, `{"sender":"Translator","content":"Bonjour"}`, lines[1])

	var sentinel core.Envelope
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &sentinel))
	assert.True(t, sentinel.IsSentinel())
	require.NotNil(t, sentinel.Result)
	assert.Equal(t, "Bonjour", *sentinel.Result.FinalText)
}

func TestPushInput_UnknownConversation(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/conversations/missing/input", "application/json",
		strings.NewReader(`{"input":"hello"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListFeatures(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/features")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Features []string `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"translation"}, body.Features)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

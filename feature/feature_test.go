package feature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chatmesh/bridge"
	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/model"
	"github.com/hupe1980/chatmesh/tool"
)

func runFeature(t *testing.T, f *Feature, seed map[string]any) *core.ConversationResult {
	t.Helper()

	g, seedMsg, err := f.Build(seed)
	require.NoError(t, err)

	result, err := chat.NewManager(g, bridge.New()).Run(context.Background(), seedMsg)
	require.NoError(t, err)

	return result
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&Feature{Name: "translation"})
	r.Register(&Feature{Name: "mail"})

	f, err := r.Get("translation")
	require.NoError(t, err)
	assert.Equal(t, "translation", f.Name)

	_, err = r.Get("missing")
	assert.ErrorContains(t, err, "unknown feature")

	assert.Equal(t, []string{"mail", "translation"}, r.Names())
}

func TestTranslation_Scenario(t *testing.T) {
	m := model.NewMockModel("m")
	m.Script("Bonjour", "APPROVED. TERMINATE")

	result := runFeature(t, NewTranslation(m), map[string]any{
		"text":         "Hello",
		"languageFrom": "English",
		"languageTo":   "French",
	})

	require.NotNil(t, result.FinalText)
	assert.Equal(t, "Bonjour", *result.FinalText)

	require.Len(t, result.History, 3)
	assert.Equal(t, "user", result.History[0].Sender)
	assert.Equal(t, "Translator", result.History[1].Sender)
	assert.Equal(t, "Critic", result.History[2].Sender)
}

func TestTranslation_CriticRequestsRevision(t *testing.T) {
	m := model.NewMockModel("m")
	m.Script("Salut", "Too informal, use a formal greeting.", "Bonjour", "APPROVED. TERMINATE")

	result := runFeature(t, NewTranslation(m), map[string]any{
		"text":         "Hello",
		"languageFrom": "English",
		"languageTo":   "French",
	})

	require.NotNil(t, result.FinalText)
	assert.Equal(t, "Bonjour", *result.FinalText)
	assert.Len(t, result.History, 5)
}

func TestTranslation_TurnCapWithoutApproval(t *testing.T) {
	m := model.NewMockModel("m")
	m.Script("v1", "revise", "v2", "revise", "v3", "revise", "v4", "revise")

	result := runFeature(t, NewTranslation(m), map[string]any{
		"text":         "Hello",
		"languageFrom": "English",
		"languageTo":   "French",
	})

	assert.Nil(t, result.FinalText)
	assert.Len(t, result.History, 7) // seed + 6 capped turns
}

func TestTranslation_MissingSeedValue(t *testing.T) {
	_, _, err := NewTranslation(model.NewMockModel("m")).Build(map[string]any{"text": "Hello"})
	assert.ErrorContains(t, err, "languageFrom")
}

func TestNewsletter_RendersHTML(t *testing.T) {
	m := model.NewMockModel("m")
	m.Script(
		"Notes: Go 1.24 released, generics adoption growing. TERMINATE",
		"# Go Weekly\n\nGo 1.24 is out.",
	)

	result := runFeature(t, NewNewsletter(m), map[string]any{"topic": "Go"})

	require.NotNil(t, result.FinalText)
	assert.Contains(t, *result.FinalText, "<h1>Go Weekly</h1>")

	// seed, Editor (folded research), Writer, Publisher
	require.Len(t, result.History, 4)
	assert.Equal(t, "Editor", result.History[1].Sender)
	assert.Contains(t, result.History[1].Content, "Go 1.24 released")
	assert.Equal(t, "Writer", result.History[2].Sender)
	assert.Equal(t, "Publisher", result.History[3].Sender)
}

func TestMail_ComposesAndDelivers(t *testing.T) {
	m := model.NewMockModel("m")
	m.Script("**Hi** there,\n\nsee you Friday.")

	var gotTo, gotSubject, gotBody string
	sender := tool.MailSenderFunc(func(_ context.Context, to, subject, htmlBody string) error {
		gotTo, gotSubject, gotBody = to, subject, htmlBody
		return nil
	})

	result := runFeature(t, NewMail(m, sender), map[string]any{
		"to":      "reader@example.com",
		"subject": "Friday",
		"brief":   "Remind the reader about Friday.",
	})

	require.NotNil(t, result.FinalText)
	assert.Equal(t, "mail sent to reader@example.com", *result.FinalText)
	assert.Equal(t, "reader@example.com", gotTo)
	assert.Equal(t, "Friday", gotSubject)
	assert.Contains(t, gotBody, "<strong>Hi</strong>")
}

func TestWebScrape_AnswersFromPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Go is a programming language.</p></body></html>"))
	}))
	defer srv.Close()

	m := model.NewMockModel("m")
	m.Script("Go is a programming language. TERMINATE")

	result := runFeature(t, NewWebScrape(m), map[string]any{
		"url":      srv.URL,
		"question": "What is Go?",
	})

	require.NotNil(t, result.FinalText)
	assert.Equal(t, "Go is a programming language.", *result.FinalText)

	// The Analyst's folded reply carries the scraped page text.
	require.Len(t, result.History, 3)
	assert.Equal(t, "Analyst", result.History[1].Sender)
	assert.Contains(t, result.History[1].Content, "Go is a programming language.")
}

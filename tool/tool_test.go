package tool

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			return "3", nil
		},
	)
}

func TestFunctionTool_Call(t *testing.T) {
	result, err := sumTool().Call(context.Background(), map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, "3", result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 1.0})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionTool_TypeMismatch(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": "one", "b": 2.0})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionTool("failing", "always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", errors.New("boom")
		},
	)

	_, err := failing.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionTool_PassesThroughToolError(t *testing.T) {
	custom := NewToolError("custom", "nope", "CUSTOM_CODE")
	failing := NewFunctionTool("custom", "custom error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", custom
		},
	)

	_, err := failing.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "CUSTOM_CODE", toolErr.Code)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Text string `json:"text" description:"Input text"`
	}

	tl := NewFunctionToolFromStruct("echo", "Echo the text", args{},
		func(_ context.Context, a map[string]any) (string, error) {
			return a["text"].(string), nil
		},
	)

	props := tl.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "text")

	result, err := tl.Call(context.Background(), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestScrapePageTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><style>p{}</style><script>var x;</script></head><body><h1>Title</h1><p>Hello   world</p></body></html>`))
	}))
	defer srv.Close()

	result, err := NewScrapePageTool().Call(context.Background(), map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "Title Hello world", result)
}

func TestScrapePageTool_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewScrapePageTool().Call(context.Background(), map[string]any{"url": srv.URL})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "FETCH_ERROR", toolErr.Code)
}

func TestSendMailTool_RendersMarkdown(t *testing.T) {
	var gotTo, gotSubject, gotBody string
	sender := MailSenderFunc(func(_ context.Context, to, subject, htmlBody string) error {
		gotTo, gotSubject, gotBody = to, subject, htmlBody
		return nil
	})

	result, err := NewSendMailTool(sender).Call(context.Background(), map[string]any{
		"to":      "reader@example.com",
		"subject": "Weekly digest",
		"body":    "# Hello\n\nNews of the week.",
	})
	require.NoError(t, err)
	assert.Equal(t, "mail sent to reader@example.com", result)
	assert.Equal(t, "reader@example.com", gotTo)
	assert.Equal(t, "Weekly digest", gotSubject)
	assert.Contains(t, gotBody, "<h1>Hello</h1>")
}

func TestSendMailTool_DeliveryError(t *testing.T) {
	sender := MailSenderFunc(func(_ context.Context, _, _, _ string) error {
		return errors.New("relay unavailable")
	})

	_, err := NewSendMailTool(sender).Call(context.Background(), map[string]any{
		"to": "a@b.c", "subject": "s", "body": "b",
	})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "DELIVERY_ERROR", toolErr.Code)
}

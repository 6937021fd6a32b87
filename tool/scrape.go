package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// ScrapePageOptions configures the scrape_page tool.
type ScrapePageOptions struct {
	Client   *http.Client
	MaxBytes int64
}

// NewScrapePageTool returns a tool that fetches a URL and reduces the page to
// plain text for downstream summarization by a researcher agent.
func NewScrapePageTool(optFns ...func(o *ScrapePageOptions)) *FunctionTool {
	opts := ScrapePageOptions{
		Client:   &http.Client{Timeout: 20 * time.Second},
		MaxBytes: 1 << 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Absolute URL of the page to fetch",
			},
		},
		"required": []string{"url"},
	}

	return NewFunctionTool(
		"scrape_page",
		"Fetch a web page and return its visible text content",
		schema,
		func(ctx context.Context, args map[string]any) (string, error) {
			url, _ := args["url"].(string)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return "", fmt.Errorf("invalid url %q: %w", url, err)
			}

			resp, err := opts.Client.Do(req)
			if err != nil {
				return "", fmt.Errorf("fetch failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return "", NewToolError("scrape_page", fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), "FETCH_ERROR")
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
			if err != nil {
				return "", fmt.Errorf("read body: %w", err)
			}

			return StripHTML(string(body)), nil
		},
	)
}

// StripHTML reduces an HTML document to whitespace-normalized visible text.
// It is intentionally crude; the downstream consumer is a language model, not
// a renderer.
func StripHTML(html string) string {
	text := scriptStyleRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

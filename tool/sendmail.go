package tool

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
)

// MailSender delivers a rendered mail. Implementations are external
// collaborators (SMTP relay, provider API); chatmesh only defines the
// interface so the send_mail tool stays testable.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailSenderFunc adapts a function to the MailSender interface.
type MailSenderFunc func(ctx context.Context, to, subject, htmlBody string) error

// Send implements MailSender.
func (f MailSenderFunc) Send(ctx context.Context, to, subject, htmlBody string) error {
	return f(ctx, to, subject, htmlBody)
}

// NewSendMailTool returns a tool that renders a markdown body to HTML and
// hands it to the configured sender. Agents produce markdown; recipients get
// HTML.
func NewSendMailTool(sender MailSender) *FunctionTool {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Mail subject line",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Mail body in markdown",
			},
		},
		"required": []string{"to", "subject", "body"},
	}

	return NewFunctionTool(
		"send_mail",
		"Send an email with a markdown body to a recipient",
		schema,
		func(ctx context.Context, args map[string]any) (string, error) {
			to, _ := args["to"].(string)
			subject, _ := args["subject"].(string)
			body, _ := args["body"].(string)

			htmlBody, err := RenderMarkdown(body)
			if err != nil {
				return "", fmt.Errorf("render markdown: %w", err)
			}

			if err := sender.Send(ctx, to, subject, htmlBody); err != nil {
				return "", NewToolError("send_mail", err.Error(), "DELIVERY_ERROR")
			}

			return fmt.Sprintf("mail sent to %s", to), nil
		},
	)
}

// RenderMarkdown converts a markdown document to HTML.
func RenderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

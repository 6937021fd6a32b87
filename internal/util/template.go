package util

import (
	"bytes"
	"strings"
	"text/template"
)

// RenderTemplate interpolates seed values into a prompt template using Go's
// text/template package. Prompts without template markers pass through
// untouched. This lives in internal to avoid committing to public API
// stability prematurely.
func RenderTemplate(text string, values map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
	}).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", err
	}

	return buf.String(), nil
}

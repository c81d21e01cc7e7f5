// Package tui renders tool results for people at a terminal.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour,
// word-wrapped at width (0 keeps glamour's default).
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// ResultMarkdown presents a tool result as a heading and a JSON code block.
func ResultMarkdown(tool, payload string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", tool)
	b.WriteString("```json\n")
	b.WriteString(strings.TrimRight(payload, "\n"))
	b.WriteString("\n```\n")
	return b.String()
}

// ErrorMarkdown presents a tool failure. payload is the JSON {code, message} pair.
func ErrorMarkdown(tool string, payload []byte) string {
	var e struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &e); err != nil || e.Message == "" {
		return fmt.Sprintf("## %s failed\n\n%s\n", tool, payload)
	}
	return fmt.Sprintf("## %s failed\n\n> **%d**: %s\n", tool, e.Code, e.Message)
}

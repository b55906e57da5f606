package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderer is a package-level glamour renderer (auto style, no word-wrap —
// the prompt box handles wrapping).
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err == nil {
		renderer = r
	}
}

// RenderMarkdown converts a markdown prompt to styled terminal output.
// Falls back to the raw input if glamour is unavailable or rendering fails.
func RenderMarkdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	// Glamour adds trailing newlines; trim for inline use
	return strings.TrimRight(out, "\n")
}

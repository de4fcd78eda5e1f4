// Package markdown renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// Assistant replies arrive as conversational markdown: short paragraphs,
// bold figures, bullet lists, occasional code fences, and blockquoted
// risk warnings. The renderer covers exactly that surface.
package markdown

import "github.com/cashpilot/cockpit"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme cockpit.Theme) string {
	if source == "" {
		return ""
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

package markdown_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpilot/cockpit"
	"github.com/cashpilot/cockpit/markdown"
)

func stripANSI(s string) string {
	re := regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	return re.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force ANSI color output so styled elements (headings, links) produce
	// visible escape codes that we can assert against.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := cockpit.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", markdown.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("ADA is trading at $0.42.", 80, theme)
		assert.Contains(t, result, "ADA is trading at $0.42.")
	})

	t.Run("heading renders with styling", func(t *testing.T) {
		t.Parallel()
		heading := markdown.Render("# Portfolio Summary", 80, theme)
		paragraph := markdown.Render("Portfolio Summary", 80, theme)
		assert.Contains(t, heading, "Portfolio Summary")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("bold text", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("price is **$0.42** today", 80, theme)
		assert.Contains(t, result, "$0.42")
		assert.Contains(t, result, "\x1b[1m", "bold must emit the ANSI bold sequence")
	})

	t.Run("italic text", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("*not financial advice*", 80, theme)
		assert.Contains(t, result, "not financial advice")
	})

	t.Run("code span", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("run `cockpit whoami` to check", 80, theme)
		assert.Contains(t, result, "cockpit whoami")
	})

	t.Run("fenced code block keeps lines verbatim", func(t *testing.T) {
		t.Parallel()
		src := "```json\n{\n  \"asset\": \"ADA\"\n}\n```"
		result := markdown.Render(src, 80, theme)
		assert.Contains(t, result, "json")
		assert.Contains(t, result, `  "asset": "ADA"`)
		assert.Contains(t, result, "│")
	})

	t.Run("unordered list", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("- stake\n- lend\n- hold", 80, theme)
		assert.Contains(t, result, "- stake")
		assert.Contains(t, result, "- lend")
		assert.Contains(t, result, "- hold")
	})

	t.Run("ordered list numbering", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("1. first\n2. second\n3. third", 80, theme)
		assert.Contains(t, result, "1. first")
		assert.Contains(t, result, "2. second")
		assert.Contains(t, result, "3. third")
	})

	t.Run("nested list indents", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("- outer\n  - inner", 80, theme)
		assert.Contains(t, result, "- outer")
		assert.Contains(t, result, "  - inner")
	})

	t.Run("link shows destination", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("[docs](https://example.com/docs)", 80, theme)
		assert.Contains(t, result, "docs")
		assert.Contains(t, result, "https://example.com/docs")
	})

	t.Run("blockquote gets a gutter", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("> Crypto markets are volatile.", 80, theme)
		assert.Contains(t, result, "▌")
		assert.Contains(t, result, "Crypto markets are volatile.")
	})

	t.Run("blockquote with multiple paragraphs", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("> first line\n>\n> second line", 80, theme)
		for _, line := range strings.Split(result, "\n") {
			if strings.Contains(line, "first") || strings.Contains(line, "second") {
				assert.Contains(t, line, "▌")
			}
		}
	})

	t.Run("image degrades to alt text", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("![chart of ADA](https://example.com/c.png)", 80, theme)
		assert.Contains(t, result, "chart of ADA")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		src := strings.Repeat("word ", 30)
		result := markdown.Render(src, 20, theme)
		require.NotEmpty(t, result)
		for _, line := range strings.Split(stripANSI(result), "\n") {
			assert.LessOrEqual(t, len([]rune(line)), 20)
		}
	})

	t.Run("no trailing newline", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("hello", 80, theme)
		assert.False(t, strings.HasSuffix(result, "\n"))
	})
}

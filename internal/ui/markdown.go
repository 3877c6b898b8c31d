package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tara-vision/stackhat/internal/project"
)

const defaultWordWrap = 100

// newMarkdownRenderer returns nil when glamour cannot be initialized;
// callers then fall back to plain text.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// RenderMarkdown renders markdown content with syntax highlighting
func (r *Renderer) RenderMarkdown(content string) string {
	if r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

// SetWordWrap rebuilds the markdown renderer for a new terminal width
func (r *Renderer) SetWordWrap(width int) {
	if !r.config.EnableMarkdown {
		return
	}
	r.markdown = newMarkdownRenderer(width)
}

// FileMarkdown wraps a file's content in a fenced block tagged with its
// language. Markdown files are returned as is.
func FileMarkdown(name, content string) string {
	lang := project.DetectFileType(name)
	if lang == "markdown" {
		return content
	}

	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	return fmt.Sprintf("%s%s\n%s\n%s", fence, lang, strings.TrimRight(content, "\n"), fence)
}

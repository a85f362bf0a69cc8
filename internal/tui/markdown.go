package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownStyleAuto picks a dark or light style from the terminal background.
const MarkdownStyleAuto = "auto"

// minMarkdownWidth keeps word wrap usable on very narrow terminals.
const minMarkdownWidth = 20

// normalizeMarkdown turns literal "\n" escape sequences into newlines.
// Catalog content often arrives double-escaped.
func normalizeMarkdown(content string) string {
	return strings.ReplaceAll(content, `\n`, "\n")
}

// RenderMarkdown renders content for the terminal, wrapped to width.
// If rendering fails the normalized source is returned.
func RenderMarkdown(content string, width int, style string) string {
	src := normalizeMarkdown(content)
	if strings.TrimSpace(src) == "" {
		return ""
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(width, minMarkdownWidth))}
	if style == "" || style == MarkdownStyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return src
	}
	out, err := renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// Package render turns stored Markdown into HTML for previews and
// exports. The engine is configured once and is safe for concurrent
// use.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls the HTML output.
type Options struct {
	// HardWraps turns single newlines into <br> elements.
	HardWraps bool
	// AllowRawHTML passes raw HTML through instead of omitting it.
	// Only enable for trusted, admin-authored content.
	AllowRawHTML bool
}

// Renderer converts Markdown to HTML with GitHub-flavored extensions
// and auto-generated heading IDs.
type Renderer struct {
	engine goldmark.Markdown
}

func New(opts Options) *Renderer {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.AllowRawHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{engine: engine}
}

// HTML renders one Markdown document.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

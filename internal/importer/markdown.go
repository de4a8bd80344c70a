package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/adrg/frontmatter"

	"github.com/inkpost/inkpost/internal/blocks"
)

// MarkdownImporter handles Markdown files, including ones that carry
// YAML front matter from another static site generator.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var meta struct {
		Title string `yaml:"title"`
	}
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	doc := blocks.FromMarkdown(string(body))

	title := meta.Title
	if title == "" {
		title = firstHeaderText(doc)
	}
	if title == "" {
		title = titleFromFilename(filename)
	}

	return &Result{Title: title, Blocks: doc}, nil
}

func firstHeaderText(doc blocks.Document) string {
	for _, b := range doc {
		if h, ok := b.(blocks.Header); ok {
			return h.Text
		}
	}
	return ""
}

package importer

import (
	"strings"
	"testing"

	"github.com/inkpost/inkpost/internal/blocks"
)

func TestMarkdownImporter_TitleFromFrontMatter(t *testing.T) {
	input := "---\ntitle: From Front Matter\ndraft: true\n---\n\n# Body Heading\n\nSome text.\n"
	p := &MarkdownImporter{}
	res, err := p.Import(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Title != "From Front Matter" {
		t.Errorf("expected front matter title, got %q", res.Title)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(res.Blocks))
	}
	h, ok := res.Blocks[0].(blocks.Header)
	if !ok {
		t.Fatalf("expected Header first, got %T", res.Blocks[0])
	}
	if h.Text != "Body Heading" || h.Level != 1 {
		t.Errorf("unexpected header %#v", h)
	}
}

func TestMarkdownImporter_TitleFromFirstHeading(t *testing.T) {
	input := "intro line\n\n# Actual Title\n\nmore text\n"
	p := &MarkdownImporter{}
	res, err := p.Import(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "Actual Title" {
		t.Errorf("expected heading title, got %q", res.Title)
	}
}

func TestMarkdownImporter_TitleFallsBackToFilename(t *testing.T) {
	p := &MarkdownImporter{}
	res, err := p.Import(strings.NewReader("plain text only\n"), "travel-notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "travel-notes" {
		t.Errorf("expected filename title, got %q", res.Title)
	}
}

func TestMarkdownImporter_ConvertsBlockTypes(t *testing.T) {
	input := "# Title\n\n- one\n- two\n\n```go\nx := 1\n```\n\n> quoted\n"
	p := &MarkdownImporter{}
	res, err := p.Import(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d: %#v", len(res.Blocks), res.Blocks)
	}
	if _, ok := res.Blocks[1].(blocks.List); !ok {
		t.Errorf("expected List second, got %T", res.Blocks[1])
	}
	if _, ok := res.Blocks[2].(blocks.Code); !ok {
		t.Errorf("expected Code third, got %T", res.Blocks[2])
	}
	if _, ok := res.Blocks[3].(blocks.Quote); !ok {
		t.Errorf("expected Quote fourth, got %T", res.Blocks[3])
	}
}

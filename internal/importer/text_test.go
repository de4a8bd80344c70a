package importer

import (
	"strings"
	"testing"

	"github.com/inkpost/inkpost/internal/blocks"
)

func TestTextImporter_ParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextImporter{}
	res, err := p.Import(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", res.Title)
	}
	if len(res.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(res.Blocks))
	}

	want := []string{
		"First paragraph line one. First paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	for i, w := range want {
		para, ok := res.Blocks[i].(blocks.Paragraph)
		if !ok {
			t.Fatalf("block %d: expected Paragraph, got %T", i, res.Blocks[i])
		}
		if para.Text != w {
			t.Errorf("block %d: expected %q, got %q", i, w, para.Text)
		}
	}
}

func TestTextImporter_EmptyInput(t *testing.T) {
	p := &TextImporter{}
	res, err := p.Import(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", res.Title)
	}
	if len(res.Blocks) != 0 {
		t.Errorf("expected no blocks for empty input, got %d", len(res.Blocks))
	}
}

func TestTextImporter_WhitespaceOnlyLinesSplit(t *testing.T) {
	input := "Para one.\n   \nPara two."
	p := &TextImporter{}
	res, err := p.Import(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(res.Blocks))
	}
}

func TestTextImporter_MultipleBlankLines(t *testing.T) {
	input := "Para one.\n\n\n\nPara two."
	p := &TextImporter{}
	res, err := p.Import(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(res.Blocks))
	}
}

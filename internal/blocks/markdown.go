package blocks

import (
	"strings"
)

// ToMarkdown renders a document as Markdown text. It never fails: blocks
// with nothing usable to emit are dropped. Each block renders as a chunk
// ending in a newline, and chunks are joined with a single newline, which
// yields one blank line between blocks.
func ToMarkdown(doc Document) string {
	chunks := make([]string, 0, len(doc))
	for _, b := range doc {
		if c := renderBlock(b); c != "" {
			chunks = append(chunks, c)
		}
	}
	return strings.Join(chunks, "\n")
}

func renderBlock(b Block) string {
	switch b := b.(type) {
	case Header:
		return strings.Repeat("#", clampLevel(b.Level)) + " " + b.Text + "\n"

	case Paragraph:
		if b.Text == "" {
			return ""
		}
		return b.Text + "\n"

	case List:
		if len(b.Items) == 0 {
			return ""
		}
		marker := "- "
		if b.Style == Ordered {
			// Markdown renderers renumber ordered lists, so every item
			// keeps the literal "1." marker.
			marker = "1. "
		}
		lines := make([]string, len(b.Items))
		for i, item := range b.Items {
			lines[i] = marker + item
		}
		return strings.Join(lines, "\n") + "\n"

	case Code:
		return "```" + b.Language + "\n" + b.Code + "\n```\n"

	case Quote:
		out := "> " + b.Text + "\n"
		if b.Caption != "" {
			out += "> — " + b.Caption + "\n"
		}
		return out

	case Delimiter:
		return "---\n"

	case Image:
		alt := b.Caption
		if alt == "" {
			alt = "Image"
		}
		return "![" + alt + "](" + b.URL + ")\n"

	case Table:
		if len(b.Content) == 0 {
			return ""
		}
		lines := make([]string, 0, len(b.Content)+1)
		lines = append(lines, pipeRow(b.Content[0]))
		lines = append(lines, separatorRow(len(b.Content[0])))
		for _, row := range b.Content[1:] {
			lines = append(lines, pipeRow(row))
		}
		return strings.Join(lines, "\n") + "\n"

	case Unknown:
		if b.Text == "" {
			return ""
		}
		return b.Text + "\n"
	}
	return ""
}

// clampLevel keeps heading levels inside 1-6 so strings.Repeat stays legal
// even when the editor hands over a malformed payload.
func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func pipeRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func separatorRow(columns int) string {
	if columns == 0 {
		columns = 1
	}
	cells := make([]string, columns)
	for i := range cells {
		cells[i] = "---"
	}
	return pipeRow(cells)
}

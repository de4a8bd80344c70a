// Package importer converts uploaded documents (Markdown, plain text,
// CSV, HTML, DOCX, PDF) into a title and a flat block document ready
// to be saved as a post.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inkpost/inkpost/internal/blocks"
)

// Result is the outcome of one import: a best-effort title and the
// converted content.
type Result struct {
	Title  string
	Blocks blocks.Document
}

// Importer converts raw document bytes into a Result.
type Importer interface {
	Import(r io.Reader, filename string) (*Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename derives a fallback title from the uploaded name.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// paragraphsFromText splits free text on blank lines and turns each
// run into one paragraph block. Lines within a run are joined with
// single spaces.
func paragraphsFromText(text string) blocks.Document {
	var doc blocks.Document
	var current []string

	flush := func() {
		if len(current) > 0 {
			doc = append(doc, blocks.Paragraph{Text: strings.Join(current, " ")})
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return doc
}

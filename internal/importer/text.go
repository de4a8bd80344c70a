package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter handles plain text files.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Title:  titleFromFilename(filename),
		Blocks: paragraphsFromText(strings.Join(lines, "\n")),
	}, nil
}

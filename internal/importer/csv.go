package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/inkpost/inkpost/internal/blocks"
)

// maxCSVRows caps how many data rows end up in the imported table so
// an oversized spreadsheet cannot balloon a post.
const maxCSVRows = 200

// CSVImporter turns a CSV file into a single table block. The first
// record is treated as the header row.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	result := &Result{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return result, nil
	}

	headers := records[0]
	dataRows := records[1:]
	truncated := false
	if len(dataRows) > maxCSVRows {
		dataRows = dataRows[:maxCSVRows]
		truncated = true
	}

	content := make([][]string, 0, len(dataRows)+1)
	content = append(content, headers)
	for _, row := range dataRows {
		content = append(content, padRow(row, len(headers)))
	}

	result.Blocks = blocks.Document{blocks.Table{Content: content}}
	if truncated {
		result.Blocks = append(result.Blocks, blocks.Paragraph{
			Text: fmt.Sprintf("Table truncated to the first %d rows.", maxCSVRows),
		})
	}
	return result, nil
}

// padRow aligns a record to the header width so every emitted table
// row has the same number of cells.
func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

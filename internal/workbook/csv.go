package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVLoader handles comma-separated files as a single-sheet workbook.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, formatErr(filename, fmt.Errorf("parse csv: %w", err))
	}

	name := bookName(filename)
	sheet := Sheet{Name: name, Rows: make([][]Cell, 0, len(records))}
	for _, rec := range records {
		cells := make([]Cell, len(rec))
		for i, field := range rec {
			cells[i] = classify(strings.TrimSpace(field))
		}
		sheet.Rows = append(sheet.Rows, cells)
	}

	return &Workbook{Name: name, Sheets: []Sheet{sheet}}, nil
}

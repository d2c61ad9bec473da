package analyze

import (
	"fmt"
	"strings"

	"github.com/dgallion1/sheetdeck/internal/workbook"
)

// AnalyzeSheet infers column types for a worksheet and extracts its row text,
// category/value pairs and per-column numeric series. Row 0 is the header.
// It never fails: malformed content degrades to placeholders or is skipped.
func AnalyzeSheet(sheet workbook.Sheet) SheetResult {
	res := SheetResult{
		Name:        sheet.Name,
		Headers:     []string{},
		ColumnTypes: map[string]ColumnType{},
		Rows:        []string{},
		Categories:  []string{},
		Values:      []float64{},
		Series:      map[string][]float64{},
	}
	if len(sheet.Rows) == 0 {
		return res
	}

	for i, c := range sheet.Rows[0] {
		h := strings.TrimSpace(c.String())
		if h == "" {
			h = fmt.Sprintf("Column%d", i+1)
		}
		res.Headers = append(res.Headers, h)
	}

	data := sheet.Rows[1:]
	types := inferColumnTypes(data, len(res.Headers))
	for i, h := range res.Headers {
		res.ColumnTypes[h] = types[i]
	}

	for _, row := range data {
		var parts []string
		var category string
		var value float64
		hasCategory, hasValue := false, false

		for i := 0; i < len(row) && i < len(res.Headers); i++ {
			c := row[i]
			header := res.Headers[i]

			var rendered string
			switch c.Kind {
			case workbook.KindNumber:
				res.Series[header] = append(res.Series[header], c.Number)
				rendered = c.String()
				if !hasValue && types[i] == ColumnNumeric {
					value, hasValue = c.Number, true
				}
			case workbook.KindText:
				rendered = strings.TrimSpace(c.Text)
				if !hasCategory && types[i] == ColumnText && rendered != "" {
					category, hasCategory = rendered, true
				}
			default:
				rendered = c.String()
			}

			if rendered != "" {
				parts = append(parts, rendered)
			}
		}

		if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
			res.Rows = append(res.Rows, text)
		}
		if hasCategory && hasValue {
			res.Categories = append(res.Categories, category)
			res.Values = append(res.Values, value)
		}
	}

	return res
}

// inferColumnTypes scans every data row once and promotes each column's type.
// Cells beyond the header span are ignored.
func inferColumnTypes(rows [][]workbook.Cell, width int) []ColumnType {
	types := make([]ColumnType, width)
	for _, row := range rows {
		for i := 0; i < len(row) && i < width; i++ {
			types[i] = types[i].Observe(row[i])
		}
	}
	return types
}

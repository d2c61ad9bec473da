// Package analyze turns loaded workbooks into the structured data used for
// prompting and charting: per-column type inference, row text, category/value
// pairs and numeric series.
package analyze

import (
	"fmt"
	"strings"

	"github.com/dgallion1/sheetdeck/internal/workbook"
)

// ColumnType is the inferred type of a sheet column.
type ColumnType int

const (
	ColumnUnknown ColumnType = iota
	ColumnText
	ColumnNumeric
	ColumnMixed
)

func (t ColumnType) String() string {
	switch t {
	case ColumnText:
		return "text"
	case ColumnNumeric:
		return "numeric"
	case ColumnMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ColumnType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unknown":
		*t = ColumnUnknown
	case "text":
		*t = ColumnText
	case "numeric":
		*t = ColumnNumeric
	case "mixed":
		*t = ColumnMixed
	default:
		return fmt.Errorf("unknown column type %q", b)
	}
	return nil
}

// Observe returns the type after seeing one more cell. Only numbers and
// non-blank text count. Mixed is absorbing.
func (t ColumnType) Observe(c workbook.Cell) ColumnType {
	var seen ColumnType
	switch {
	case c.Kind == workbook.KindNumber:
		seen = ColumnNumeric
	case c.Kind == workbook.KindText && strings.TrimSpace(c.Text) != "":
		seen = ColumnText
	default:
		return t
	}
	switch t {
	case ColumnUnknown:
		return seen
	case seen, ColumnMixed:
		return t
	default:
		return ColumnMixed
	}
}

// SheetResult is the analysis of a single worksheet.
type SheetResult struct {
	Name        string                `json:"name"`
	Headers     []string              `json:"headers"`
	ColumnTypes map[string]ColumnType `json:"column_types"`
	Rows        []string              `json:"rows"`
	Categories  []string              `json:"categories"`
	Values      []float64             `json:"values"`
	Series      map[string][]float64  `json:"series"`
}

// WorkbookResult merges the analysis of every sheet in a workbook.
type WorkbookResult struct {
	Sheets     []SheetResult        `json:"sheets"`
	Rows       []string             `json:"rows"`
	Categories []string             `json:"categories"`
	Values     []float64            `json:"values"`
	Series     map[string][]float64 `json:"series"`
}

// Text returns all extracted rows, one per line.
func (w *WorkbookResult) Text() string {
	return strings.Join(w.Rows, "\n")
}

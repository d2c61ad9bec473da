package workbook

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies which field of a Cell carries its value.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindFormula
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindFormula:
		return "formula"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value.
type Cell struct {
	Kind    Kind
	Text    string
	Number  float64
	Bool    bool
	Time    time.Time
	Formula string // formula source without the leading "="

	// HasResult reports whether a formula cell carries a cached numeric result in Number.
	HasResult bool
}

// Convenience constructors, mostly used by loaders and tests.
func TextCell(s string) Cell      { return Cell{Kind: KindText, Text: s} }
func NumberCell(v float64) Cell   { return Cell{Kind: KindNumber, Number: v} }
func BoolCell(b bool) Cell        { return Cell{Kind: KindBool, Bool: b} }
func DateCell(t time.Time) Cell   { return Cell{Kind: KindDate, Time: t} }
func FormulaCell(src string) Cell { return Cell{Kind: KindFormula, Formula: src} }

// FormulaResultCell is a formula cell whose cached value is numeric.
func FormulaResultCell(src string, v float64) Cell {
	return Cell{Kind: KindFormula, Formula: src, Number: v, HasResult: true}
}

// String renders the cell the way it appears in extracted row text.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return FormatNumber(c.Number)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindFormula:
		if c.HasResult {
			return FormatNumber(c.Number)
		}
		return c.Formula
	case KindDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// FormatNumber renders v as the shortest decimal string that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// classify turns a textual cell rendering into a Number, Text or Empty cell.
// Loaders without typed cells (CSV, legacy XLS) use it.
func classify(s string) Cell {
	if s == "" {
		return Cell{}
	}
	if v, ok := parseNumber(s); ok {
		return NumberCell(v)
	}
	return TextCell(s)
}

// parseNumber accepts finite decimal numbers only. ParseFloat also takes
// "NaN" and "Inf", which are words in a spreadsheet.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Sheet is one worksheet. Rows[0] is the header row. Rows are never padded:
// a row only holds the cells that exist in the source.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Workbook is an ordered list of sheets.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

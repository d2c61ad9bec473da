package workbook

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader handles Office Open XML workbooks (.xlsx, .xlsm).
type XLSXLoader struct{}

func (l *XLSXLoader) Load(r io.Reader, filename string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, formatErr(filename, fmt.Errorf("open xlsx: %w", err))
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, formatErr(filename, fmt.Errorf("no sheets found"))
	}

	rd := &xlsxReader{f: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		rd.date1904 = *props.Date1904
	}

	wb := &Workbook{Name: bookName(filename)}
	for _, name := range sheetList {
		sheet, err := rd.readSheet(name)
		if err != nil {
			return nil, formatErr(filename, fmt.Errorf("read sheet %q: %w", name, err))
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

type xlsxReader struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

func (rd *xlsxReader) readSheet(name string) (Sheet, error) {
	rows, err := rd.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, err
	}

	sheet := Sheet{Name: name, Rows: make([][]Cell, 0, len(rows))}
	for rowIdx, row := range rows {
		cells := make([]Cell, len(row))
		for colIdx, raw := range row {
			ref, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return Sheet{}, err
			}
			cells[colIdx] = rd.readCell(name, ref, raw)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

func (rd *xlsxReader) readCell(sheet, ref, raw string) Cell {
	if formula, err := rd.f.GetCellFormula(sheet, ref); err == nil && formula != "" {
		if v, ok := parseNumber(raw); ok {
			return FormulaResultCell(formula, v)
		}
		return FormulaCell(formula)
	}

	typ, err := rd.f.GetCellType(sheet, ref)
	if err != nil {
		return classify(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		if raw == "" {
			return Cell{}
		}
		return TextCell(raw)
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return DateCell(t)
		}
		return classify(raw)
	}

	c := classify(raw)
	if c.Kind == KindNumber && rd.isDateStyled(sheet, ref) {
		if t, err := excelize.ExcelDateToTime(c.Number, rd.date1904); err == nil {
			return DateCell(t)
		}
	}
	return c
}

func (rd *xlsxReader) isDateStyled(sheet, ref string) bool {
	styleID, err := rd.f.GetCellStyle(sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := rd.dateStyles[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := rd.f.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	rd.dateStyles[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a number format renders serial numbers as dates or times.
func isDateNumFmt(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return isDateFormatCode(*custom)
}

func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "ydh") || strings.Contains(s, "mm:ss")
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

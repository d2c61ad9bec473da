package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
)

// XLSLoader handles legacy BIFF (.xls) workbooks. The decoder only exposes
// rendered strings, so cells are classified from their text.
type XLSLoader struct{}

func (l *XLSLoader) Load(r io.Reader, filename string) (wb *Workbook, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, formatErr(filename, fmt.Errorf("read xls: %w", err))
	}

	// The BIFF decoder panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			wb = nil
			err = formatErr(filename, fmt.Errorf("decode xls: %v", p))
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, formatErr(filename, fmt.Errorf("open xls: %w", err))
	}
	if book.NumSheets() == 0 {
		return nil, formatErr(filename, fmt.Errorf("no sheets found"))
	}

	wb = &Workbook{Name: bookName(filename)}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name}
		for rowIdx := 0; rowIdx <= int(ws.MaxRow); rowIdx++ {
			row := sheetRow(ws, rowIdx)
			if row == nil {
				sheet.Rows = append(sheet.Rows, nil)
				continue
			}
			cells := make([]Cell, 0, row.LastCol())
			for colIdx := 0; colIdx < row.LastCol(); colIdx++ {
				if colIdx < row.FirstCol() {
					cells = append(cells, Cell{})
					continue
				}
				cells = append(cells, classify(strings.TrimSpace(row.Col(colIdx))))
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// sheetRow returns nil for row indexes the sheet has no record for. The
// decoder dereferences the missing row itself.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

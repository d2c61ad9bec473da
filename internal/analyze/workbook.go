package analyze

import "github.com/dgallion1/sheetdeck/internal/workbook"

// AnalyzeWorkbook analyzes each sheet in order and merges the results.
//
// Row text concatenates in sheet order. Category/value pairs concatenate too,
// but only from sheets that produced both. Series merge by header name: a later
// sheet replaces an earlier sheet's series for the same header.
func AnalyzeWorkbook(wb *workbook.Workbook) *WorkbookResult {
	res := &WorkbookResult{
		Sheets:     []SheetResult{},
		Rows:       []string{},
		Categories: []string{},
		Values:     []float64{},
		Series:     map[string][]float64{},
	}
	if wb == nil {
		return res
	}

	for _, sheet := range wb.Sheets {
		sr := AnalyzeSheet(sheet)
		res.Sheets = append(res.Sheets, sr)
		res.Rows = append(res.Rows, sr.Rows...)

		if len(sr.Categories) > 0 && len(sr.Values) > 0 {
			res.Categories = append(res.Categories, sr.Categories...)
			res.Values = append(res.Values, sr.Values...)
		}

		for header, values := range sr.Series {
			res.Series[header] = values
		}
	}
	return res
}

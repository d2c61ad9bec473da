package workbook

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, fill func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestXLSXLoader_CellKinds(t *testing.T) {
	data := buildXLSX(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Region")
		f.SetCellValue("Sheet1", "B1", "Sales")
		f.SetCellValue("Sheet1", "C1", "Active")
		f.SetCellValue("Sheet1", "D1", "Opened")
		f.SetCellValue("Sheet1", "A2", "North")
		f.SetCellValue("Sheet1", "B2", 120.5)
		f.SetCellValue("Sheet1", "C2", true)
		f.SetCellValue("Sheet1", "D2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		f.SetCellFormula("Sheet1", "A3", "B3*2")
		f.SetCellValue("Sheet1", "B3", 7)
	})

	wb, err := (&XLSXLoader{}).Load(bytes.NewReader(data), "sales.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wb.Name != "sales" {
		t.Errorf("expected book name %q, got %q", "sales", wb.Name)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(wb.Sheets))
	}
	sheet := wb.Sheets[0]
	if sheet.Name != "Sheet1" {
		t.Errorf("expected sheet name Sheet1, got %q", sheet.Name)
	}
	if len(sheet.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(sheet.Rows))
	}

	row := sheet.Rows[1]
	if row[0].Kind != KindText || row[0].Text != "North" {
		t.Errorf("A2: expected text North, got %v %q", row[0].Kind, row[0].Text)
	}
	if row[1].Kind != KindNumber || row[1].Number != 120.5 {
		t.Errorf("B2: expected number 120.5, got %v %v", row[1].Kind, row[1].Number)
	}
	if row[2].Kind != KindBool || !row[2].Bool {
		t.Errorf("C2: expected bool true, got %v %v", row[2].Kind, row[2].Bool)
	}
	if row[3].Kind != KindDate || row[3].Time.Year() != 2024 || row[3].Time.Month() != time.March {
		t.Errorf("D2: expected date in March 2024, got %v %v", row[3].Kind, row[3].Time)
	}

	formula := sheet.Rows[2][0]
	if formula.Kind != KindFormula || formula.Formula != "B3*2" {
		t.Errorf("A3: expected formula B3*2, got %v %q", formula.Kind, formula.Formula)
	}
	if formula.HasResult {
		t.Error("A3: expected no cached result for an uncalculated formula")
	}
	if got := formula.String(); got != "B3*2" {
		t.Errorf("A3: expected rendering to fall back to formula source, got %q", got)
	}
}

func TestXLSXLoader_MultipleSheetsInOrder(t *testing.T) {
	data := buildXLSX(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "first")
		f.NewSheet("Second")
		f.SetCellValue("Second", "A1", "second")
	})

	wb, err := (&XLSXLoader{}).Load(bytes.NewReader(data), "book.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(wb.Sheets))
	}
	if wb.Sheets[0].Name != "Sheet1" || wb.Sheets[1].Name != "Second" {
		t.Errorf("unexpected sheet order: %q, %q", wb.Sheets[0].Name, wb.Sheets[1].Name)
	}
}

func TestXLSXLoader_CorruptInput(t *testing.T) {
	_, err := (&XLSXLoader{}).Load(bytes.NewReader([]byte("not a zip file")), "broken.xlsx")
	if err == nil {
		t.Fatal("expected error for corrupt input")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if fe.Filename != "broken.xlsx" {
		t.Errorf("expected filename broken.xlsx, got %q", fe.Filename)
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"d/m/yy h:mm", true},
		{"mm:ss", true},
		{"0.00", false},
		{"#,##0", false},
		{`0.0 "days"`, false},
		{"[Red]0.00", false},
	}
	for _, tc := range tests {
		if got := isDateFormatCode(tc.code); got != tc.want {
			t.Errorf("isDateFormatCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

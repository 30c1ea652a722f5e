package xlsxwriter

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// buildWorkbook writes the same fixture through any writer:
//
//	Data:  A1 "Date"  B1 "Amount"
//	       A2 <2023-01-15>  B2 42.5
//	       A3 true    B3 ""
//	Notes: A1 nil
func buildWorkbook(t *testing.T, w types.Writer, path string) {
	t.Helper()

	wb, err := w.NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook failed: %v", err)
	}
	defer wb.Close()

	if err := wb.RemoveDefaultSheet(); err != nil {
		t.Fatalf("RemoveDefaultSheet failed: %v", err)
	}

	data, err := wb.CreateSheet("Data")
	if err != nil {
		t.Fatalf("CreateSheet(Data) failed: %v", err)
	}
	values := []struct {
		row, col int
		v        interface{}
	}{
		{1, 1, "Date"},
		{1, 2, "Amount"},
		{2, 1, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{2, 2, 42.5},
		{3, 1, true},
		{3, 2, ""},
	}
	for _, v := range values {
		if err := data.SetValue(v.row, v.col, v.v); err != nil {
			t.Fatalf("SetValue(%d, %d) failed: %v", v.row, v.col, err)
		}
	}

	notes, err := wb.CreateSheet("Notes")
	if err != nil {
		t.Fatalf("CreateSheet(Notes) failed: %v", err)
	}
	if err := notes.SetValue(1, 1, nil); err != nil {
		t.Fatalf("SetValue(nil) failed: %v", err)
	}

	if err := wb.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestWritersRoundTrip(t *testing.T) {
	writers := map[string]types.Writer{
		ExcelizeName: NewExcelizeWriter(),
		TealegName:   NewTealegWriter(),
	}

	for name, w := range writers {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.xlsx")
			buildWorkbook(t, w, path)

			f, err := excelize.OpenFile(path)
			if err != nil {
				t.Fatalf("failed to reopen output: %v", err)
			}
			defer f.Close()

			if got, want := f.GetSheetList(), []string{"Data", "Notes"}; !reflect.DeepEqual(got, want) {
				t.Errorf("GetSheetList() = %v, expected %v", got, want)
			}

			raw := excelize.Options{RawCellValue: true}
			cases := map[string]string{"A1": "Date", "B1": "Amount", "B2": "42.5", "B3": ""}
			for cell, want := range cases {
				got, err := f.GetCellValue("Data", cell, raw)
				if err != nil {
					t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
				}
				if got != want {
					t.Errorf("%s = %q, expected %q", cell, got, want)
				}
			}

			serial, err := f.GetCellValue("Data", "A2", raw)
			if err != nil {
				t.Fatalf("GetCellValue(A2) failed: %v", err)
			}
			n, err := strconv.ParseFloat(serial, 64)
			if err != nil {
				t.Fatalf("A2 = %q, expected a date serial", serial)
			}
			if math.Abs(n-44941) > 1e-6 {
				t.Errorf("A2 serial = %v, expected 44941", n)
			}

			if got, _ := f.GetCellValue("Data", "A3"); got != "TRUE" {
				t.Errorf("A3 = %q, expected TRUE", got)
			}
		})
	}
}

func TestExcelizeDateStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	buildWorkbook(t, NewExcelizeWriter(), path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen output: %v", err)
	}
	defer f.Close()

	idx, err := f.GetCellStyle("Data", "A2")
	if err != nil {
		t.Fatalf("GetCellStyle failed: %v", err)
	}
	style, err := f.GetStyle(idx)
	if err != nil {
		t.Fatalf("GetStyle failed: %v", err)
	}
	if style.NumFmt != 14 {
		t.Errorf("date cell NumFmt = %d, expected 14", style.NumFmt)
	}
}

func TestExcelizeSourceSheetNamedSheet1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	wb, err := NewExcelizeWriter().NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook failed: %v", err)
	}
	defer wb.Close()

	if err := wb.RemoveDefaultSheet(); err != nil {
		t.Fatalf("RemoveDefaultSheet failed: %v", err)
	}
	for _, name := range []string{"Summary", "Sheet1"} {
		sh, err := wb.CreateSheet(name)
		if err != nil {
			t.Fatalf("CreateSheet(%s) failed: %v", name, err)
		}
		if err := sh.SetValue(1, 1, name); err != nil {
			t.Fatalf("SetValue failed: %v", err)
		}
	}
	if err := wb.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen output: %v", err)
	}
	defer f.Close()

	if got, want := f.GetSheetList(), []string{"Summary", "Sheet1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetSheetList() = %v, expected %v", got, want)
	}
	if got, _ := f.GetCellValue("Sheet1", "A1"); got != "Sheet1" {
		t.Errorf("Sheet1!A1 = %q, expected Sheet1", got)
	}
}

func TestCreateSheetDuplicate(t *testing.T) {
	for _, w := range []types.Writer{NewExcelizeWriter(), NewTealegWriter()} {
		wb, err := w.NewWorkbook()
		if err != nil {
			t.Fatalf("NewWorkbook failed: %v", err)
		}
		if err := wb.RemoveDefaultSheet(); err != nil {
			t.Fatalf("RemoveDefaultSheet failed: %v", err)
		}
		if _, err := wb.CreateSheet("Data"); err != nil {
			t.Fatalf("CreateSheet failed: %v", err)
		}
		if _, err := wb.CreateSheet("Data"); err == nil {
			t.Errorf("%T: expected an error for a duplicate sheet name", w)
		}
		wb.Close()
	}
}

func TestSaveWithoutSheets(t *testing.T) {
	for _, w := range []types.Writer{NewExcelizeWriter(), NewTealegWriter()} {
		wb, err := w.NewWorkbook()
		if err != nil {
			t.Fatalf("NewWorkbook failed: %v", err)
		}
		if err := wb.RemoveDefaultSheet(); err != nil {
			t.Fatalf("RemoveDefaultSheet failed: %v", err)
		}
		err = wb.Save(filepath.Join(t.TempDir(), "empty.xlsx"))
		if !errors.Is(err, ErrNoSheets) {
			t.Errorf("%T: Save() error = %v, expected ErrNoSheets", w, err)
		}
		wb.Close()
	}
}

func TestWritersRegistered(t *testing.T) {
	for _, name := range []string{ExcelizeName, TealegName} {
		factory, err := registry.Writer(name)
		if err != nil {
			t.Fatalf("writer %q not registered: %v", name, err)
		}
		if factory() == nil {
			t.Errorf("writer %q factory returned nil", name)
		}
	}
}

func TestWritersEarlyDates(t *testing.T) {
	dates := []struct {
		cell string
		t    time.Time
		want string
	}{
		{"A1", time.Date(1899, 12, 31, 12, 0, 0, 0, time.UTC), "0.5"},
		{"A2", time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), "1"},
		{"A3", time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), "59"},
		{"A4", time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), "61"},
		{"A5", time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), "0"},
	}

	for _, w := range []types.Writer{NewExcelizeWriter(), NewTealegWriter()} {
		t.Run(fmt.Sprintf("%T", w), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "early.xlsx")

			wb, err := w.NewWorkbook()
			if err != nil {
				t.Fatalf("NewWorkbook failed: %v", err)
			}
			defer wb.Close()
			if err := wb.RemoveDefaultSheet(); err != nil {
				t.Fatalf("RemoveDefaultSheet failed: %v", err)
			}
			sh, err := wb.CreateSheet("Dates")
			if err != nil {
				t.Fatalf("CreateSheet failed: %v", err)
			}
			for i, d := range dates {
				if err := sh.SetValue(i+1, 1, d.t); err != nil {
					t.Fatalf("SetValue(%s) failed: %v", d.cell, err)
				}
			}
			if err := wb.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			f, err := excelize.OpenFile(path)
			if err != nil {
				t.Fatalf("failed to reopen output: %v", err)
			}
			defer f.Close()

			for _, d := range dates {
				got, err := f.GetCellValue("Dates", d.cell, excelize.Options{RawCellValue: true})
				if err != nil {
					t.Fatalf("GetCellValue(%s) failed: %v", d.cell, err)
				}
				if got != d.want {
					t.Errorf("%s (%s) = %q, expected serial %s", d.cell, d.t.Format(time.DateTime), got, d.want)
				}
				typ, err := f.GetCellType("Dates", d.cell)
				if err != nil {
					t.Fatalf("GetCellType(%s) failed: %v", d.cell, err)
				}
				if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
					t.Errorf("%s stored as text, expected a number", d.cell)
				}
			}
		})
	}
}

func TestExcelizeEarlyDateStyle(t *testing.T) {
	wb, err := NewExcelizeWriter().NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook failed: %v", err)
	}
	defer wb.Close()
	if err := wb.RemoveDefaultSheet(); err != nil {
		t.Fatalf("RemoveDefaultSheet failed: %v", err)
	}
	sh, err := wb.CreateSheet("Dates")
	if err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	if err := sh.SetValue(1, 1, time.Date(1900, 1, 10, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := sh.SetValue(2, 1, time.Date(1900, 1, 10, 6, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	f := wb.(*excelizeWorkbook).f
	for cell, want := range map[string]int{"A1": 14, "A2": 22} {
		idx, err := f.GetCellStyle("Dates", cell)
		if err != nil {
			t.Fatalf("GetCellStyle(%s) failed: %v", cell, err)
		}
		style, err := f.GetStyle(idx)
		if err != nil {
			t.Fatalf("GetStyle failed: %v", err)
		}
		if style.NumFmt != want {
			t.Errorf("%s NumFmt = %d, expected %d", cell, style.NumFmt, want)
		}
	}
}

func TestSaveAnyExtension(t *testing.T) {
	for _, w := range []types.Writer{NewExcelizeWriter(), NewTealegWriter()} {
		path := filepath.Join(t.TempDir(), "out.bin")
		buildWorkbook(t, w, path)

		f, err := excelize.OpenFile(path)
		if err != nil {
			t.Fatalf("%T: failed to reopen %s: %v", w, path, err)
		}
		if got, want := f.GetSheetList(), []string{"Data", "Notes"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%T: GetSheetList() = %v, expected %v", w, got, want)
		}
		f.Close()
	}
}

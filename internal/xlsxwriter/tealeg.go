package xlsxwriter

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// TealegName is the registry name of the alternate writer.
const TealegName = "tealeg"

func init() {
	registry.RegisterWriter(TealegName, func() types.Writer { return NewTealegWriter() })
}

// TealegWriter writes workbooks with github.com/tealeg/xlsx. The library
// starts with no sheets, so there is no default sheet to remove.
type TealegWriter struct{}

// NewTealegWriter creates the writer.
func NewTealegWriter() *TealegWriter {
	return &TealegWriter{}
}

func (w *TealegWriter) NewWorkbook() (types.TargetWorkbook, error) {
	return &tealegWorkbook{f: xlsx.NewFile()}, nil
}

type tealegWorkbook struct {
	f *xlsx.File
}

func (wb *tealegWorkbook) RemoveDefaultSheet() error { return nil }

func (wb *tealegWorkbook) CreateSheet(name string) (types.TargetSheet, error) {
	sh, err := wb.f.AddSheet(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return &tealegSheet{sh: sh}, nil
}

func (wb *tealegWorkbook) Save(path string) error {
	if len(wb.f.Sheets) == 0 {
		return ErrNoSheets
	}
	if err := wb.f.Save(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (wb *tealegWorkbook) Close() error { return nil }

type tealegSheet struct {
	sh *xlsx.Sheet
}

// SetValue stores v at the one-based (row, col). Rows and cells are grown
// on demand.
func (s *tealegSheet) SetValue(row, col int, v interface{}) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell coordinates (%d, %d)", row, col)
	}

	r := s.sh.Row(row - 1)
	for len(r.Cells) < col {
		r.AddCell()
	}
	cell := r.Cells[col-1]

	switch val := v.(type) {
	case float64:
		cell.SetFloat(val)
	case time.Time:
		if serial, early := earlySerial(val); early {
			cell.SetDateTimeWithFormat(serial, xlsx.DefaultDateTimeFormat)
		} else {
			cell.SetDateTime(val)
		}
	case string:
		cell.SetString(val)
	case bool:
		cell.SetBool(val)
	case nil:
		cell.SetString("")
	default:
		return fmt.Errorf("unsupported value type %T at (%d, %d)", v, row, col)
	}
	return nil
}

// =============================================================================
// XLS to XLSX Converter - XLSX Writer (excelize backend)
// =============================================================================
//
// This module builds the output workbook with github.com/xuri/excelize/v2.
//
// DEFAULT SHEET HANDLING:
//   excelize always creates a workbook with one sheet ("Sheet1") and refuses
//   to delete the last remaining sheet. RemoveDefaultSheet therefore only
//   marks the default sheet; the first CreateSheet renames it to the source
//   sheet name, and later calls append new sheets. The saved file never
//   contains the default sheet unless the source has one with that name.
//
// VALUE MAPPING (via SetCellValue):
//   | Go type   | Stored as                                 |
//   |-----------|-------------------------------------------|
//   | float64   | number                                    |
//   | time.Time | date serial with a built-in date format   |
//   |           | (before 1900-03-01: see serial.go)        |
//   | string    | shared string                             |
//   | bool      | boolean                                   |
//   | nil       | empty cell                                |
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// ExcelizeName is the registry name of this backend.
const ExcelizeName = "excelize"

// ErrNoSheets is returned by Save when no sheet was created.
var ErrNoSheets = errors.New("workbook has no sheets")

func init() {
	registry.RegisterWriter(ExcelizeName, func() types.Writer { return NewExcelizeWriter() })
}

// ExcelizeWriter is the default modern writer.
type ExcelizeWriter struct{}

// NewExcelizeWriter creates the writer.
func NewExcelizeWriter() *ExcelizeWriter {
	return &ExcelizeWriter{}
}

// NewWorkbook returns an empty workbook holding the library's default sheet.
func (w *ExcelizeWriter) NewWorkbook() (types.TargetWorkbook, error) {
	return &excelizeWorkbook{f: excelize.NewFile()}, nil
}

// =============================================================================
// WORKBOOK
// =============================================================================

type excelizeWorkbook struct {
	f *excelize.File

	// pending is the default sheet awaiting its rename, or "".
	pending string

	// created counts sheets added through CreateSheet.
	created int

	// dateStyles caches style ids by built-in number format.
	dateStyles map[int]int
}

// RemoveDefaultSheet marks the default sheet for replacement.
func (wb *excelizeWorkbook) RemoveDefaultSheet() error {
	if wb.created > 0 {
		return errors.New("default sheet must be removed before sheets are created")
	}
	list := wb.f.GetSheetList()
	if len(list) == 0 {
		return nil
	}
	wb.pending = list[0]
	return nil
}

// CreateSheet appends a sheet. Names are unique without regard to case.
func (wb *excelizeWorkbook) CreateSheet(name string) (types.TargetSheet, error) {
	if wb.pending != "" {
		if err := wb.f.SetSheetName(wb.pending, name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		wb.pending = ""
	} else {
		if idx, err := wb.f.GetSheetIndex(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		} else if idx != -1 {
			return nil, fmt.Errorf("failed to create sheet %q: duplicate sheet name", name)
		}
		if _, err := wb.f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	wb.created++
	return &excelizeSheet{wb: wb, name: name}, nil
}

// Save writes the workbook to path. Any extension is accepted.
func (wb *excelizeWorkbook) Save(path string) error {
	if wb.created == 0 {
		return ErrNoSheets
	}
	wb.f.SetActiveSheet(0)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if _, err := wb.f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (wb *excelizeWorkbook) dateStyle(numFmt int) (int, error) {
	if id, ok := wb.dateStyles[numFmt]; ok {
		return id, nil
	}
	id, err := wb.f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		return 0, err
	}
	if wb.dateStyles == nil {
		wb.dateStyles = make(map[int]int)
	}
	wb.dateStyles[numFmt] = id
	return id, nil
}

func (wb *excelizeWorkbook) Close() error {
	return wb.f.Close()
}

// =============================================================================
// SHEET
// =============================================================================

type excelizeSheet struct {
	wb   *excelizeWorkbook
	name string
}

// SetValue stores v at the one-based (row, col).
func (s *excelizeSheet) SetValue(row, col int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if t, ok := v.(time.Time); ok {
		if serial, early := earlySerial(t); early {
			return s.setSerial(cell, serial, dateNumFmt(t))
		}
	}
	return s.wb.f.SetCellValue(s.name, cell, v)
}

func (s *excelizeSheet) setSerial(cell string, serial float64, numFmt int) error {
	style, err := s.wb.dateStyle(numFmt)
	if err != nil {
		return err
	}
	if err := s.wb.f.SetCellFloat(s.name, cell, serial, -1, 64); err != nil {
		return err
	}
	return s.wb.f.SetCellStyle(s.name, cell, cell, style)
}

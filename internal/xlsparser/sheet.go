// =============================================================================
// XLS to XLSX Converter - Legacy Workbook Snapshot
// =============================================================================
//
// Both reader backends copy every sheet into the in-memory structures below
// while the source file is open, then release the file. The converter only
// ever sees these snapshots.
//
// =============================================================================

package xlsparser

import (
	"fmt"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// cellKey addresses a snapshot cell, zero-based.
type cellKey struct {
	row, col int
}

// sheet is a loaded legacy worksheet.
type sheet struct {
	name  string
	nrows int
	ncols int
	cells map[cellKey]types.Cell
}

func newSheet(name string) *sheet {
	return &sheet{name: name, cells: make(map[cellKey]types.Cell)}
}

// put stores a cell and grows the bounding rectangle to include it.
func (s *sheet) put(row, col int, c types.Cell) {
	s.cells[cellKey{row, col}] = c
	if row+1 > s.nrows {
		s.nrows = row + 1
	}
	if col+1 > s.ncols {
		s.ncols = col + 1
	}
}

func (s *sheet) Name() string { return s.name }

func (s *sheet) Dims() (int, int) { return s.nrows, s.ncols }

func (s *sheet) Cell(row, col int) types.Cell {
	if c, ok := s.cells[cellKey{row, col}]; ok {
		return c
	}
	return types.Blank()
}

// workbook is a loaded legacy workbook.
type workbook struct {
	sheets   []*sheet
	date1904 bool
}

func (w *workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return names
}

func (w *workbook) Sheet(name string) (types.SourceSheet, error) {
	for _, s := range w.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found", name)
}

func (w *workbook) Date1904() bool { return w.date1904 }

// Close is a no-op; the source file is released during Open.
func (w *workbook) Close() error { return nil }

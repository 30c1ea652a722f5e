// =============================================================================
// XLS to XLSX Converter - Shared Types
// =============================================================================
//
// This package contains the data model shared by the converter, the legacy
// readers, and the modern writers. Keeping it here avoids import cycles:
//   - converter   : consumes Reader and Writer
//   - xlsparser   : implements Reader (SourceWorkbook, SourceSheet)
//   - xlsxwriter  : implements Writer (TargetWorkbook, TargetSheet)
//
// ADDRESSING:
//   Source sheets are addressed zero-based (row, col).
//   Target sheets are addressed one-based (row, col).
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// CELL KINDS
// =============================================================================

// CellKind is the closed set of source cell type tags. New kinds must be
// added here and handled in the converter's transcription switch.
type CellKind int

const (
	// KindOther covers text-like values the converter copies untyped:
	// booleans, error literals, and blanks.
	KindOther CellKind = iota

	// KindNumber is a plain numeric cell. Value holds a float64.
	KindNumber

	// KindDateSerial is a numeric cell whose number format marks it as a
	// date. Value holds the raw float64 serial.
	KindDateSerial

	// KindText is a string cell. Value holds a string.
	KindText
)

// String returns the tag name used in logs and error messages.
func (k CellKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindNumber:
		return "number"
	case KindDateSerial:
		return "date-serial"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cell is one source cell: a type tag plus the raw value the reader produced.
type Cell struct {
	// Kind is the type tag.
	Kind CellKind

	// Value is float64 for KindNumber and KindDateSerial, string for
	// KindText, and string, bool, or nil for KindOther.
	Value interface{}
}

// Blank returns the cell used for grid positions that hold no record.
func Blank() Cell {
	return Cell{Kind: KindOther, Value: ""}
}

// Number returns the numeric payload of a KindNumber or KindDateSerial cell.
func (c Cell) Number() (float64, bool) {
	f, ok := c.Value.(float64)
	return f, ok
}

// =============================================================================
// SOURCE (LEGACY FORMAT) SIDE
// =============================================================================

// SourceWorkbook is a fully loaded legacy workbook. It is read-only.
type SourceWorkbook interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string

	// Sheet returns the sheet with the given name.
	Sheet(name string) (SourceSheet, error)

	// Date1904 reports whether date serials use the 1904 epoch.
	Date1904() bool

	// Close releases anything the reader still holds.
	Close() error
}

// SourceSheet is a dense grid of cells, fixed at load time.
type SourceSheet interface {
	Name() string

	// Dims returns nrows and ncols. Every (r, c) with r < nrows and
	// c < ncols is a valid address.
	Dims() (nrows, ncols int)

	// Cell returns the cell at the zero-based address. Positions without a
	// record return Blank().
	Cell(row, col int) Cell
}

// Reader opens legacy workbooks.
type Reader interface {
	Open(path string) (SourceWorkbook, error)
}

// =============================================================================
// TARGET (MODERN FORMAT) SIDE
// =============================================================================

// TargetWorkbook is a workbook being built for serialization.
type TargetWorkbook interface {
	// RemoveDefaultSheet drops the writer's initial sheet so that only
	// sheets created afterwards end up in the saved file.
	RemoveDefaultSheet() error

	// CreateSheet appends a sheet with the given name.
	CreateSheet(name string) (TargetSheet, error)

	// Save serializes the workbook to path.
	Save(path string) error

	// Close releases writer resources. It is safe to call after Save.
	Close() error
}

// TargetSheet is a sparse, growable grid addressed one-based.
type TargetSheet interface {
	// SetValue stores v at (row, col). v is one of float64, time.Time,
	// string, bool, or nil.
	SetValue(row, col int, v interface{}) error
}

// Writer creates empty modern-format workbooks.
type Writer interface {
	NewWorkbook() (TargetWorkbook, error)
}

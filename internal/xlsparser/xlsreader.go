// =============================================================================
// XLS to XLSX Converter - Legacy Reader (xlsReader backend)
// =============================================================================
//
// This module loads BIFF5/BIFF8 workbooks with github.com/shakinm/xlsReader
// and classifies every cell into the converter's closed set of kinds.
//
// CELL CLASSIFICATION:
//   | Record                    | Kind            | Value              |
//   |---------------------------|-----------------|--------------------|
//   | NUMBER, RK, MULRK         | Number / Date   | float64            |
//   | LABEL, LABELSST, RSTRING  | Text            | string             |
//   | FORMULA                   | as its result   | cached value       |
//   | BOOLERR (boolean)         | Other           | bool               |
//   | BOOLERR (error)           | Other           | "#DIV/0!" etc.     |
//   | BLANK, MULBLANK, absent   | Other           | ""                 |
//
// A numeric cell is a date serial when the number format of its XF record
// is a date format (see dateformat.go).
//
// The library skips FORMULA and RSTRING records and does not expose
// DATEMODE. Those come from the record scanner (biff.go) and are laid over
// each loaded sheet.
//
// =============================================================================

package xlsparser

import (
	"errors"
	"fmt"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// XLSReaderName is the registry name of this backend.
const XLSReaderName = "xlsreader"

// Record type names reported by structure.CellData.GetType.
const (
	recNumber     = "*record.Number"
	recRk         = "*record.Rk"
	recLabelSST   = "*record.LabelSSt"
	recLabelBIFF8 = "*record.LabelBIFF8"
	recLabelBIFF5 = "*record.LabelBIFF5"
	recBoolErr    = "*record.BoolErr"
	recBlank      = "*record.Blank"
	recFakeBlank  = "*record.FakeBlank"
)

// ErrNoSheets is returned for files that hold no worksheet, which is also
// what the library yields for streams it cannot decode.
var ErrNoSheets = errors.New("no worksheets found")

func init() {
	registry.RegisterReader(XLSReaderName, func(opts registry.ReaderOptions) types.Reader {
		return NewXLSReader(opts.Date1904)
	})
}

// XLSReader is the default legacy reader.
type XLSReader struct {
	date1904 bool
}

// NewXLSReader creates a reader. date1904 forces the 1904 epoch for every
// workbook it opens, whatever the workbook declares.
func NewXLSReader(date1904 bool) *XLSReader {
	return &XLSReader{date1904: date1904}
}

// Open loads the whole workbook into memory.
//
// PARAMETERS:
//   - path: The path to the .xls file.
//
// RETURNS:
//   - The loaded workbook. The file is already closed. Its date mode is
//     the workbook's own DATEMODE, or 1904 when the reader was created so.
//   - An error if the file cannot be opened or decoded. Panics raised by
//     the library on malformed input are returned as errors.
func (r *XLSReader) Open(path string) (wb types.SourceWorkbook, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			wb, err = nil, fmt.Errorf("malformed workbook: %v", rec)
		}
	}()

	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if book.GetNumberSheets() == 0 {
		return nil, ErrNoSheets
	}

	scan, err := scanWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workbook records: %w", err)
	}

	l := &loader{book: &book, dateXF: make(map[int]bool)}
	out := &workbook{date1904: r.date1904 || scan.date1904}

	for i := 0; i < book.GetNumberSheets(); i++ {
		src, err := book.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %d: %w", i, err)
		}
		dst := l.load(src)
		scan.sheet(i).overlay(dst, l.isDateXF, originFormula, originRichText)
		out.sheets = append(out.sheets, dst)
	}

	return out, nil
}

// loader holds per-workbook state while sheets are copied.
type loader struct {
	book *xls.Workbook

	// dateXF caches the date decision per XF index.
	dateXF map[int]bool
}

func (l *loader) load(src *xls.Sheet) *sheet {
	dst := newSheet(src.GetName())

	for r, row := range src.GetRows() {
		for c, cd := range row.GetCols() {
			// Placeholders the library synthesizes for gaps do not extend
			// the bounding rectangle.
			if cd == nil || cd.GetType() == recFakeBlank {
				continue
			}
			dst.put(r, c, classify(cd, l.isDateXF))
		}
	}

	return dst
}

// isDateXF reports whether the XF record at index formats numbers as dates.
func (l *loader) isDateXF(xf int) bool {
	if v, ok := l.dateXF[xf]; ok {
		return v
	}

	v := l.lookupDateXF(xf)
	l.dateXF[xf] = v
	return v
}

func (l *loader) lookupDateXF(xf int) (isDate bool) {
	// The library indexes its XF table without bounds checks.
	defer func() {
		if recover() != nil {
			isDate = false
		}
	}()

	rec := l.book.GetXFbyIndex(xf)
	id := rec.GetFormatIndex()
	if isBuiltinDateFormat(id) {
		return true
	}

	format := l.book.GetFormatByIndex(id)
	return isDateFormatString(format.String())
}

// classify maps one library cell onto the converter's cell kinds.
func classify(cd structure.CellData, isDate func(xf int) bool) types.Cell {
	switch cd.GetType() {
	case recNumber, recRk:
		if isDate(cd.GetXFIndex()) {
			return types.Cell{Kind: types.KindDateSerial, Value: cd.GetFloat64()}
		}
		return types.Cell{Kind: types.KindNumber, Value: cd.GetFloat64()}

	case recLabelSST, recLabelBIFF8, recLabelBIFF5:
		return types.Cell{Kind: types.KindText, Value: cd.GetString()}

	case recBoolErr:
		switch s := cd.GetString(); s {
		case "TRUE":
			return types.Cell{Kind: types.KindOther, Value: true}
		case "FALSE":
			return types.Cell{Kind: types.KindOther, Value: false}
		default:
			return types.Cell{Kind: types.KindOther, Value: s}
		}

	case recBlank, recFakeBlank:
		return types.Blank()

	default:
		return types.Cell{Kind: types.KindOther, Value: cd.GetString()}
	}
}

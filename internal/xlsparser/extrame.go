// =============================================================================
// XLS to XLSX Converter - Legacy Reader (extrame backend)
// =============================================================================
//
// Compatibility reader built on github.com/extrame/xls. The library renders
// every cell as text, and numbers whose format is a date or a custom format
// come back as formatted dates ("2006.01", RFC3339) that cannot be turned
// back into the stored value. So the library only supplies labels and the
// row layout here:
//
//   | Source                         | Kind            |
//   |--------------------------------|-----------------|
//   | LABEL, LABELSST (library)      | Text            |
//   | NUMBER, RK, MULRK (scanner)    | Number / Date   |
//   | BOOLERR (scanner)              | Other           |
//   | FORMULA, RSTRING (scanner)     | as their value  |
//
// Select it with `--reader extrame` when the default reader rejects a file.
//
// =============================================================================

package xlsparser

import (
	"errors"
	"fmt"
	"os"

	extrame "github.com/extrame/xls"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// ExtrameName is the registry name of this backend.
const ExtrameName = "extrame"

// formulaPlaceholder is what the library returns for formula cells.
const formulaPlaceholder = "FormulaCol"

// ErrNotWorkbook is returned when the file has no workbook stream.
var ErrNotWorkbook = errors.New("file does not contain a legacy workbook stream")

func init() {
	registry.RegisterReader(ExtrameName, func(opts registry.ReaderOptions) types.Reader {
		return NewExtrameReader(opts.Charset, opts.Date1904)
	})
}

// ExtrameReader is the compatibility legacy reader.
type ExtrameReader struct {
	charset  string
	date1904 bool
}

// NewExtrameReader creates a reader that decodes strings with charset.
func NewExtrameReader(charset string, date1904 bool) *ExtrameReader {
	if charset == "" {
		charset = "utf-8"
	}
	return &ExtrameReader{charset: charset, date1904: date1904}
}

// Open snapshots every sheet of the workbook and closes the file.
func (r *ExtrameReader) Open(path string) (wb types.SourceWorkbook, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			wb, err = nil, fmt.Errorf("malformed workbook: %v", rec)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	book, err := extrame.OpenReader(f, r.charset)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if book == nil {
		return nil, ErrNotWorkbook
	}
	if book.NumSheets() == 0 {
		return nil, ErrNoSheets
	}

	scan, err := scanWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workbook records: %w", err)
	}

	out := &workbook{date1904: r.date1904 || scan.date1904}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			return nil, fmt.Errorf("failed to read sheet %d", i)
		}
		dst := snapshotWorksheet(ws)
		scan.sheet(i).overlay(dst, scan.isDateXF, originValue, originFormula, originRichText)
		out.sheets = append(out.sheets, dst)
	}

	return out, nil
}

// snapshotWorksheet copies the labels of a parsed worksheet. The rectangle
// spans MaxRow rows and the widest ROW record's column count.
func snapshotWorksheet(ws *extrame.WorkSheet) *sheet {
	dst := newSheet(ws.Name)

	rows := make(map[int]*extrame.Row)
	ncols := 0
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := rowAt(ws, r)
		if row == nil {
			continue
		}
		rows[r] = row
		if last := row.LastCol(); last > ncols {
			ncols = last
		}
	}

	if ncols == 0 {
		return dst
	}

	for r, row := range rows {
		for c := 0; c < ncols; c++ {
			if cell := textCell(row.Col(c)); cell != types.Blank() {
				dst.put(r, c, cell)
			}
		}
	}
	dst.nrows = int(ws.MaxRow) + 1
	dst.ncols = ncols

	return dst
}

// rowAt returns row i, or nil when the sheet has no such row. The library
// dereferences missing rows.
func rowAt(ws *extrame.WorkSheet, i int) (row *extrame.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// textCell wraps library text. Numeric cells also arrive here as text, but
// the scanner overlay replaces them with their stored values.
func textCell(s string) types.Cell {
	if s == "" || s == formulaPlaceholder {
		return types.Blank()
	}
	return types.Cell{Kind: types.KindText, Value: s}
}

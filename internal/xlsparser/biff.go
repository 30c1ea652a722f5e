// =============================================================================
// XLS to XLSX Converter - BIFF Record Scanner
// =============================================================================
//
// Neither reader library exposes every record a faithful transcription
// needs. This scanner opens the compound document with
// github.com/richardlehane/mscfb and walks the workbook stream itself:
//
//   | Record             | Collected for                                |
//   |--------------------|----------------------------------------------|
//   | DATEMODE           | the workbook's own 1904 flag                 |
//   | CODEPAGE           | decoding BIFF5 8-bit strings                 |
//   | XF, FORMAT         | date detection                               |
//   | FORMULA, STRING    | cached formula results                       |
//   | RSTRING            | BIFF5 labels with character formatting       |
//   | NUMBER, RK, MULRK  | raw numbers                                  |
//   | BOOLERR            | booleans and error literals                  |
//
// Sheet substreams are matched to library sheets by BOUNDSHEET order, which
// both libraries preserve.
//
// =============================================================================

package xlsparser

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
)

// Record identifiers.
const (
	idFormula    = 0x0006
	idEOF        = 0x000A
	idDateMode   = 0x0022
	idContinue   = 0x003C
	idCodePage   = 0x0042
	idBoundSheet = 0x0085
	idMulRK      = 0x00BD
	idRString    = 0x00D6
	idXF         = 0x00E0
	idNumber     = 0x0203
	idBoolErr    = 0x0205
	idString     = 0x0207
	idRK         = 0x027E
	idFormat     = 0x041E
	idBOF        = 0x0809
)

const biff8Version = 0x0600

// errorLiterals maps BOOLERR and FORMULA error codes to their text.
var errorLiterals = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

// origin identifies the record family a scanned cell came from.
type origin int

const (
	originValue    origin = iota // NUMBER, RK, MULRK, BOOLERR
	originFormula                // cached FORMULA result
	originRichText               // RSTRING
)

// rawCell is a scanned cell before date typing.
type rawCell struct {
	xf     int
	origin origin
	cell   types.Cell
}

// resolve promotes a number to a date serial when its XF formats dates.
func (c rawCell) resolve(isDate func(xf int) bool) types.Cell {
	if c.cell.Kind == types.KindNumber && isDate(c.xf) {
		return types.Cell{Kind: types.KindDateSerial, Value: c.cell.Value}
	}
	return c.cell
}

// biffSheet holds the scanned cells of one worksheet substream.
type biffSheet struct {
	cells map[cellKey]rawCell
}

func newBiffSheet() *biffSheet {
	return &biffSheet{cells: make(map[cellKey]rawCell)}
}

// overlay writes the scanned cells of the given origins into dst, replacing
// whatever the library produced at the same address.
func (s *biffSheet) overlay(dst *sheet, isDate func(xf int) bool, origins ...origin) {
	for key, c := range s.cells {
		for _, o := range origins {
			if c.origin == o {
				dst.put(key.row, key.col, c.resolve(isDate))
				break
			}
		}
	}
}

// set stores a cell addressed by the rw/col/ixfe header every cell record
// starts with.
func (s *biffSheet) set(hdr []byte, o origin, c types.Cell) cellKey {
	key := cellKey{row: le16(hdr), col: le16(hdr[2:])}
	s.cells[key] = rawCell{xf: le16(hdr[4:]), origin: o, cell: c}
	return key
}

// biffBook is the scanned content of a workbook stream.
type biffBook struct {
	biff8     bool
	date1904  bool
	codepage  uint16
	xfFormats []int
	formats   map[int]string
	sheets    []*biffSheet
}

// sheet returns the scanned substream at index i. Missing substreams scan
// as empty.
func (b *biffBook) sheet(i int) *biffSheet {
	if i >= 0 && i < len(b.sheets) {
		return b.sheets[i]
	}
	return newBiffSheet()
}

// isDateXF reports whether the XF record at index formats numbers as dates.
func (b *biffBook) isDateXF(xf int) bool {
	if xf < 0 || xf >= len(b.xfFormats) {
		return false
	}
	id := b.xfFormats[xf]
	return isBuiltinDateFormat(id) || isDateFormatString(b.formats[id])
}

// =============================================================================
// STREAM ACCESS
// =============================================================================

// scanWorkbook opens the compound document at path and scans its workbook
// stream.
func scanWorkbook(path string) (*biffBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read compound document: %w", err)
	}

	// "Book" is the BIFF5 stream name and wins when both are present.
	var stream *mscfb.File
	for _, entry := range doc.File {
		if len(entry.Path) > 0 {
			continue
		}
		switch entry.Name {
		case "Book":
			stream = entry
		case "Workbook":
			if stream == nil {
				stream = entry
			}
		}
	}
	if stream == nil || stream.Size == 0 {
		return nil, ErrNotWorkbook
	}

	buf := make([]byte, stream.Size)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return nil, fmt.Errorf("failed to read workbook stream: %w", err)
	}

	return parseBIFF(buf)
}

// recordReader iterates the records of a workbook stream.
type recordReader struct {
	buf []byte
	pos int
}

// next returns the record at the current position and moves past it. It
// reports false at the end of the stream or on a truncated record.
func (r *recordReader) next() (uint16, []byte, bool) {
	if r.pos < 0 || r.pos+4 > len(r.buf) {
		return 0, nil, false
	}
	id := binary.LittleEndian.Uint16(r.buf[r.pos:])
	start := r.pos + 4
	end := start + le16(r.buf[r.pos+2:])
	if end > len(r.buf) {
		return 0, nil, false
	}
	r.pos = end
	return id, r.buf[start:end], true
}

// peek returns the id of the next record without consuming it.
func (r *recordReader) peek() (uint16, bool) {
	if r.pos < 0 || r.pos+4 > len(r.buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(r.buf[r.pos:]), true
}

// continuations consumes the CONTINUE records that follow the current one.
func (r *recordReader) continuations() [][]byte {
	var segs [][]byte
	for {
		id, ok := r.peek()
		if !ok || id != idContinue {
			return segs
		}
		_, data, ok := r.next()
		if !ok {
			return segs
		}
		segs = append(segs, data)
	}
}

// =============================================================================
// PARSING
// =============================================================================

// parseBIFF scans the workbook globals and then every sheet substream.
func parseBIFF(buf []byte) (*biffBook, error) {
	rr := &recordReader{buf: buf}

	id, data, ok := rr.next()
	if !ok || id != idBOF || len(data) < 2 {
		return nil, ErrNotWorkbook
	}

	book := &biffBook{
		biff8:    binary.LittleEndian.Uint16(data) == biff8Version,
		codepage: 1252,
		formats:  make(map[int]string),
	}

	var offsets []int
	for {
		id, data, ok := rr.next()
		if !ok || id == idEOF {
			break
		}
		switch id {
		case idDateMode:
			if len(data) >= 2 {
				book.date1904 = le16(data) != 0
			}
		case idCodePage:
			if len(data) >= 2 {
				book.codepage = binary.LittleEndian.Uint16(data)
			}
		case idBoundSheet:
			if len(data) >= 4 {
				offsets = append(offsets, int(binary.LittleEndian.Uint32(data)))
			}
		case idXF:
			if len(data) >= 4 {
				book.xfFormats = append(book.xfFormats, le16(data[2:]))
			}
		case idFormat:
			if len(data) >= 2 {
				book.formats[le16(data)] = book.formatCode(data[2:])
			}
		}
	}

	for _, off := range offsets {
		book.sheets = append(book.sheets, book.scanSheet(buf, off))
	}

	return book, nil
}

// scanSheet collects the cell records of the substream at offset. Records
// of embedded substreams (chart objects) are skipped.
func (b *biffBook) scanSheet(buf []byte, offset int) *biffSheet {
	s := newBiffSheet()
	rr := &recordReader{buf: buf, pos: offset}

	depth := 0
	var pending *cellKey

	for {
		id, data, ok := rr.next()
		if !ok {
			return s
		}

		switch id {
		case idBOF:
			depth++
			continue
		case idEOF:
			depth--
			if depth <= 0 {
				return s
			}
			continue
		}
		if depth != 1 {
			continue
		}

		switch id {
		case idNumber:
			if len(data) >= 14 {
				s.set(data, originValue, number(math.Float64frombits(binary.LittleEndian.Uint64(data[6:]))))
			}

		case idRK:
			if len(data) >= 10 {
				s.set(data, originValue, number(rkValue(binary.LittleEndian.Uint32(data[6:]))))
			}

		case idMulRK:
			s.mulRK(data)

		case idBoolErr:
			if len(data) >= 8 {
				s.set(data, originValue, boolErrCell(data[6], data[7] != 0))
			}

		case idRString:
			if len(data) >= 8 {
				s.set(data, originRichText, text(b.stringBody(data[6:], rr)))
			}

		case idFormula:
			pending = nil
			if len(data) < 14 {
				continue
			}
			cell, awaitsString := formulaResult(data[6:14])
			key := s.set(data, originFormula, cell)
			if awaitsString {
				pending = &key
			}

		case idString:
			if pending == nil {
				continue
			}
			c := s.cells[*pending]
			c.cell = text(b.stringBody(data, rr))
			s.cells[*pending] = c
			pending = nil
		}
	}
}

// mulRK expands a MULRK record: rw, colFirst, then ixfe/RK pairs, then
// colLast.
func (s *biffSheet) mulRK(data []byte) {
	if len(data) < 6 {
		return
	}
	row, first := le16(data), le16(data[2:])
	n := (len(data) - 6) / 6
	for i := 0; i < n; i++ {
		rec := data[4+6*i:]
		s.cells[cellKey{row: row, col: first + i}] = rawCell{
			xf:     le16(rec),
			origin: originValue,
			cell:   number(rkValue(binary.LittleEndian.Uint32(rec[2:]))),
		}
	}
}

// formulaResult decodes the 8-byte cached result of a FORMULA record. The
// second return value is true when the text lives in the next STRING record.
func formulaResult(res []byte) (types.Cell, bool) {
	if res[6] != 0xFF || res[7] != 0xFF {
		return number(math.Float64frombits(binary.LittleEndian.Uint64(res))), false
	}

	switch res[0] {
	case 0:
		return text(""), true
	case 1:
		return boolErrCell(res[2], false), false
	case 2:
		return boolErrCell(res[2], true), false
	default:
		return text(""), false
	}
}

// rkValue decodes an RK number.
func rkValue(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func boolErrCell(v byte, isErr bool) types.Cell {
	if !isErr {
		return types.Cell{Kind: types.KindOther, Value: v != 0}
	}
	if s, ok := errorLiterals[v]; ok {
		return types.Cell{Kind: types.KindOther, Value: s}
	}
	return types.Cell{Kind: types.KindOther, Value: fmt.Sprintf("#ERR%02X!", v)}
}

func number(f float64) types.Cell { return types.Cell{Kind: types.KindNumber, Value: f} }

func text(s string) types.Cell { return types.Cell{Kind: types.KindText, Value: s} }

// =============================================================================
// STRINGS
// =============================================================================

// stringBody decodes a string that starts with a 2-byte character count,
// as in STRING and RSTRING records. BIFF8 strings may continue into
// CONTINUE records.
func (b *biffBook) stringBody(data []byte, rr *recordReader) string {
	if len(data) < 2 {
		return ""
	}
	cch := le16(data)
	if !b.biff8 {
		return b.decode8(clip(data[2:], cch))
	}
	segs := append([][]byte{data[2:]}, rr.continuations()...)
	return unicodeChars(cch, segs)
}

// formatCode decodes the format string of a FORMAT record.
func (b *biffBook) formatCode(data []byte) string {
	if b.biff8 {
		if len(data) < 2 {
			return ""
		}
		return unicodeChars(le16(data), [][]byte{data[2:]})
	}
	if len(data) < 1 {
		return ""
	}
	return b.decode8(clip(data[1:], int(data[0])))
}

// decode8 decodes BIFF5 8-bit text with the workbook code page.
func (b *biffBook) decode8(raw []byte) string {
	out, err := codepageCharmap(b.codepage).NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func codepageCharmap(cp uint16) *charmap.Charmap {
	switch cp {
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 866:
		return charmap.CodePage866
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	case 10000, 32768:
		return charmap.Macintosh
	}
	return charmap.Windows1252
}

// unicodeChars decodes cch characters of a BIFF8 string split into
// segments. Each segment starts with an option byte whose low bit selects
// 16-bit characters. The first segment may carry rich-text and phonetic
// headers.
func unicodeChars(cch int, segs [][]byte) string {
	units := make([]uint16, 0, cch)
	for i, seg := range segs {
		if cch <= 0 || len(seg) == 0 {
			break
		}
		flags := seg[0]
		seg = seg[1:]
		if i == 0 {
			if flags&0x08 != 0 {
				seg = seg[min(2, len(seg)):]
			}
			if flags&0x04 != 0 {
				seg = seg[min(4, len(seg)):]
			}
		}

		if flags&0x01 != 0 {
			for len(seg) >= 2 && cch > 0 {
				units = append(units, binary.LittleEndian.Uint16(seg))
				seg = seg[2:]
				cch--
			}
			continue
		}
		for len(seg) >= 1 && cch > 0 {
			units = append(units, uint16(seg[0]))
			seg = seg[1:]
			cch--
		}
	}
	return string(utf16.Decode(units))
}

// clip returns at most n bytes of b.
func clip(b []byte, n int) []byte {
	if n < len(b) {
		return b[:n]
	}
	return b
}

func le16(b []byte) int {
	return int(binary.LittleEndian.Uint16(b))
}

// =============================================================================
// XLS to XLSX Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It transcribes one legacy
// workbook into one modern workbook, sheet by sheet and cell by cell.
//
// CONVERSION PIPELINE:
//   1. Open the whole input workbook through the injected reader
//   2. Create an empty target workbook and drop its default sheet
//   3. For each source sheet, in order, create the same-named target sheet
//   4. Copy every cell of the sheet's bounding rectangle, row-major
//   5. Save the target workbook (atomically, by default)
//   6. Optionally re-open the output and verify its sheet list
//
// CELL TRANSCRIPTION:
//   | Source kind   | Target value                                       |
//   |---------------|----------------------------------------------------|
//   | Number        | the float64, unchanged                             |
//   | Date serial   | the calendar datetime, or the raw serial on error  |
//   | Text / Other  | the raw value, unchanged                           |
//
// CONCURRENCY:
//   A Converter holds no per-call state. Convert is synchronous and may be
//   called from several goroutines with distinct output paths.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/types"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/validation"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the input workbook.
	FilePath string

	// OutputFile is the path to the written workbook.
	// This is empty if the conversion failed.
	OutputFile string

	// Success indicates whether the conversion was successful.
	Success bool

	// Error contains the cause if the conversion failed.
	// This is a *ConversionError, or wraps ErrInputNotFound.
	Error error

	// Stats contains conversion statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// Sheets is the number of sheets written.
	Sheets int

	// Cells is the number of cells written, blanks included.
	Cells int

	// DateFallbacks is the number of date serials stored raw because they
	// could not be reinterpreted as datetimes.
	DateFallbacks int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options configures a Converter.
type Options struct {
	// Date1904 forces the 1904 epoch regardless of what the source reports.
	Date1904 bool

	// AtomicWrite saves to a temporary sibling and renames it over the
	// output path.
	AtomicWrite bool

	// Verify re-opens the output and checks its sheet list.
	Verify bool

	// Logger receives progress messages. Nil discards them.
	Logger Logger
}

// Converter transcribes legacy workbooks into modern workbooks.
type Converter struct {
	reader types.Reader
	writer types.Writer
	opts   Options
	logger Logger
}

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - reader: The legacy-format reader capability.
//   - writer: The modern-format writer capability.
//   - opts: Conversion options.
//
// RETURNS:
//   - A new Converter instance. A nil reader or writer is reported by
//     Convert as a failure, before any file is touched.
func New(reader types.Reader, writer types.Writer, opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Converter{
		reader: reader,
		writer: writer,
		opts:   opts,
		logger: logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert transcribes the workbook at inputPath into outputPath.
//
// PARAMETERS:
//   - inputPath: The legacy workbook to read.
//   - outputPath: The modern workbook to write. An existing file is replaced.
//
// RETURNS:
//   - A Result. Convert never panics; any error or panic raised while
//     reading, transcribing or saving yields Success=false.
func (c *Converter) Convert(inputPath, outputPath string) (result Result) {
	startTime := time.Now()
	result = Result{FilePath: inputPath}

	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.OutputFile = ""
			result.Error = stageError(StageTranscribe, fmt.Errorf("unexpected panic: %v", rec))
		}
		result.Stats.ProcessingTime = time.Since(startTime)
		if result.Error != nil {
			c.logger.Debug("Conversion of %s failed: %v", inputPath, result.Error)
		}
	}()

	if c.reader == nil || c.writer == nil {
		result.Error = stageError(StageOpen, errors.New("reader or writer capability is not available"))
		return result
	}

	if !utils.FileExists(inputPath) {
		result.Error = fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		return result
	}

	// =========================================================================
	// STEP 1: OPEN SOURCE WORKBOOK
	// =========================================================================

	c.logger.Info("Processing file: %s", inputPath)

	src, err := c.reader.Open(inputPath)
	if err != nil {
		result.Error = stageError(StageOpen, err)
		return result
	}
	defer src.Close()

	date1904 := c.opts.Date1904 || src.Date1904()
	names := src.SheetNames()
	c.logger.Debug("Opened %s: %d sheet(s), date1904=%v", inputPath, len(names), date1904)

	// =========================================================================
	// STEP 2: CREATE TARGET WORKBOOK
	// =========================================================================

	dst, err := c.writer.NewWorkbook()
	if err != nil {
		result.Error = stageError(StageCreate, err)
		return result
	}
	defer dst.Close()

	if err := dst.RemoveDefaultSheet(); err != nil {
		result.Error = stageError(StageCreate, err)
		return result
	}

	// =========================================================================
	// STEP 3: TRANSCRIBE SHEETS
	// =========================================================================

	for _, name := range names {
		sheet, err := src.Sheet(name)
		if err != nil {
			result.Error = &ConversionError{Stage: StageOpen, Sheet: name, Row: -1, Col: -1, Err: err}
			return result
		}

		target, err := dst.CreateSheet(name)
		if err != nil {
			result.Error = &ConversionError{Stage: StageCreate, Sheet: name, Row: -1, Col: -1, Err: err}
			return result
		}

		if err := c.transcribe(sheet, target, date1904, &result.Stats); err != nil {
			result.Error = err
			return result
		}
		result.Stats.Sheets++
	}

	// =========================================================================
	// STEP 4: SAVE
	// =========================================================================

	if err := c.save(dst, outputPath); err != nil {
		result.Error = stageError(StageSave, err)
		return result
	}

	// =========================================================================
	// STEP 5: VERIFY (OPTIONAL)
	// =========================================================================

	if c.opts.Verify {
		if errs := validation.VerifyOutput(outputPath, names); len(errs) > 0 {
			result.Error = stageError(StageVerify, errors.New(validation.Summarize(errs)))
			return result
		}
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	if result.Stats.DateFallbacks > 0 {
		c.logger.Warn("%d date serial(s) could not be reinterpreted and were copied raw", result.Stats.DateFallbacks)
	}
	c.logger.Info("Converted %s -> %s (%d sheets, %d cells)", inputPath, outputPath, result.Stats.Sheets, result.Stats.Cells)

	result.OutputFile = outputPath
	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// transcribe copies every cell of the source sheet's bounding rectangle into
// the target sheet. Target addresses are the source addresses plus one.
func (c *Converter) transcribe(src types.SourceSheet, dst types.TargetSheet, date1904 bool, stats *ProcessingStats) error {
	nrows, ncols := src.Dims()
	c.logger.Debug("Transcribing sheet %q (%d x %d)", src.Name(), nrows, ncols)

	for r := 0; r < nrows; r++ {
		for col := 0; col < ncols; col++ {
			cell := src.Cell(r, col)

			value, err := c.targetValue(cell, date1904, stats)
			if err != nil {
				return &ConversionError{Stage: StageTranscribe, Sheet: src.Name(), Row: r, Col: col, Err: err}
			}

			if err := dst.SetValue(r+1, col+1, value); err != nil {
				return &ConversionError{Stage: StageTranscribe, Sheet: src.Name(), Row: r, Col: col, Err: err}
			}
			stats.Cells++
		}
	}

	return nil
}

// targetValue maps a source cell to the value written to the target.
func (c *Converter) targetValue(cell types.Cell, date1904 bool, stats *ProcessingStats) (interface{}, error) {
	switch cell.Kind {
	case types.KindNumber:
		n, ok := cell.Number()
		if !ok {
			return nil, fmt.Errorf("number cell holds %T", cell.Value)
		}
		return n, nil

	case types.KindDateSerial:
		serial, ok := cell.Number()
		if !ok {
			return nil, fmt.Errorf("date cell holds %T", cell.Value)
		}
		t, err := ReinterpretDate(serial, date1904)
		if err != nil {
			stats.DateFallbacks++
			c.logger.Debug("Date fallback for serial %v: %v", serial, err)
			return serial, nil
		}
		return t, nil

	case types.KindText, types.KindOther:
		return cell.Value, nil

	default:
		return nil, fmt.Errorf("unknown cell kind %s", cell.Kind)
	}
}

// save writes the workbook to outputPath, through a temporary sibling file
// when atomic writes are enabled.
func (c *Converter) save(wb types.TargetWorkbook, outputPath string) error {
	if !c.opts.AtomicWrite {
		return wb.Save(outputPath)
	}

	tmp := utils.TempPathFor(outputPath)
	if err := wb.Save(tmp); err != nil {
		_ = utils.RemoveFile(tmp)
		return err
	}
	return utils.CommitFile(tmp, outputPath)
}

// nopLogger discards all messages.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

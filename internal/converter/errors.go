package converter

import (
	"errors"
	"fmt"
)

// ErrInputNotFound is returned when the input path does not name a file.
var ErrInputNotFound = errors.New("input file not found")

// Conversion stages reported in ConversionError.
const (
	StageOpen       = "open"
	StageCreate     = "create"
	StageTranscribe = "transcribe"
	StageSave       = "save"
	StageVerify     = "verify"
)

// ConversionError describes a failed conversion. Sheet, Row and Col are set
// when the failure is tied to a location; Row and Col are zero-based and -1
// when unknown.
type ConversionError struct {
	Stage string
	Sheet string
	Row   int
	Col   int
	Err   error
}

func (e *ConversionError) Error() string {
	switch {
	case e.Sheet != "" && e.Row >= 0 && e.Col >= 0:
		return fmt.Sprintf("%s failed at sheet %q row %d col %d: %v", e.Stage, e.Sheet, e.Row, e.Col, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("%s failed at sheet %q: %v", e.Stage, e.Sheet, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// stageError builds a ConversionError with no location.
func stageError(stage string, err error) *ConversionError {
	return &ConversionError{Stage: stage, Row: -1, Col: -1, Err: err}
}

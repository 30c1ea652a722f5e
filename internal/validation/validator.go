// =============================================================================
// XLS to XLSX Converter - Output Verification
// =============================================================================
//
// This module re-opens a written workbook and checks it against the source
// it was produced from. It verifies sheet fidelity:
//   - Every source sheet is present
//   - No sheet was added (in particular the writer's default sheet)
//   - Sheets appear in source order
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one
//   - Each error names the sheet and the rule it violates
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet a fresh workbook starts with.
const DefaultSheetName = "Sheet1"

// Verification rules.
const (
	RuleOpen         = "open"
	RuleMissingSheet = "missing-sheet"
	RuleExtraSheet   = "extra-sheet"
	RuleDefaultSheet = "default-sheet"
	RuleSheetOrder   = "sheet-order"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single verification failure.
type ValidationError struct {
	// Sheet is the sheet the failure concerns, if any.
	Sheet string

	// Rule is the verification rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("[%s] %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("[%s] sheet '%s': %s", e.Rule, e.Sheet, e.Message)
}

// =============================================================================
// VERIFICATION
// =============================================================================

// VerifyOutput checks the sheet list of the workbook at path.
//
// PARAMETERS:
//   - path: The written workbook.
//   - expected: The source sheet names, in source order.
//
// RETURNS:
//   - The verification failures. An empty slice means the output is
//     faithful.
func VerifyOutput(path string, expected []string) []*ValidationError {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return []*ValidationError{{Rule: RuleOpen, Message: fmt.Sprintf("cannot open output: %v", err)}}
	}
	defer f.Close()

	return CompareSheets(f.GetSheetList(), expected)
}

// CompareSheets compares the written sheet list with the source sheet list.
func CompareSheets(actual, expected []string) []*ValidationError {
	var errs []*ValidationError

	want := make(map[string]int, len(expected))
	for i, name := range expected {
		want[name] = i
	}
	got := make(map[string]int, len(actual))
	for i, name := range actual {
		got[name] = i
	}

	for _, name := range expected {
		if _, ok := got[name]; !ok {
			errs = append(errs, &ValidationError{Sheet: name, Rule: RuleMissingSheet, Message: "sheet is missing from the output"})
		}
	}

	for _, name := range actual {
		if _, ok := want[name]; ok {
			continue
		}
		if name == DefaultSheetName {
			errs = append(errs, &ValidationError{Sheet: name, Rule: RuleDefaultSheet, Message: "default sheet was not removed"})
		} else {
			errs = append(errs, &ValidationError{Sheet: name, Rule: RuleExtraSheet, Message: "sheet does not exist in the source"})
		}
	}

	// Order is only meaningful among sheets present on both sides.
	var common []string
	for _, name := range actual {
		if _, ok := want[name]; ok {
			common = append(common, name)
		}
	}
	last := -1
	for _, name := range common {
		if want[name] < last {
			errs = append(errs, &ValidationError{Sheet: name, Rule: RuleSheetOrder, Message: "sheet is out of source order"})
		}
		if want[name] > last {
			last = want[name]
		}
	}

	return errs
}

// Summarize joins verification errors into a single line.
func Summarize(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "no verification errors"
	}

	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("output verification failed with %d error(s): %s", len(errs), strings.Join(parts, "; "))
}

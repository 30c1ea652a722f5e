// =============================================================================
// XLS to XLSX Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the XLS to XLSX Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   xls2xlsx <input-path> [output-path]   - Convert one legacy workbook
//   xls2xlsx version                      - Display the application version
//
// ARCHITECTURE:
//   - cmd/                  : CLI command definitions (Cobra)
//   - internal/converter    : the transcription pipeline
//   - internal/xlsparser    : legacy (.xls) reader backends
//   - internal/xlsxwriter   : modern (.xlsx) writer backends
//   - internal/registry     : backend lookup by name
//   - internal/config       : YAML configuration
//   - internal/validation   : output verification
//   - internal/logging      : zerolog adapter
//   - pkg/utils             : file naming and atomic writes
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}

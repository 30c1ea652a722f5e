// =============================================================================
// XLS to XLSX Converter - File Manager Utility
// =============================================================================
//
// This module provides the file utilities used around a conversion:
//   - Default output naming
//   - Input existence and freshness checks
//   - Temporary output paths and atomic commit
//
// ATOMIC WRITE STRATEGY:
//   The workbook is saved to a hidden sibling of the output path with a
//   unique name and the output's extension:
//     reports/q1.xlsx -> reports/.q1.3f2c...e1.xlsx
//   After a successful save the temporary file is renamed over the output.
//   Both files live in the same directory, so the rename never crosses a
//   filesystem boundary. A failed save removes the temporary file.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// FILE NAMING UTILITIES
// =============================================================================

// DefaultOutputPath derives the output path from the input path.
//
// PARAMETERS:
//   - inputPath: The path to the legacy workbook.
//   - ext: The output extension including the dot (e.g., ".xlsx").
//
// RETURNS:
//   - inputPath with its extension replaced by ext, or with ext appended
//     when inputPath has no extension.
//
// EXAMPLES:
//   - "report.xls"        -> "report.xlsx"
//   - "data/Q1.XLS"       -> "data/Q1.xlsx"
//   - "archive/legacy"    -> "archive/legacy.xlsx"
func DefaultOutputPath(inputPath, ext string) string {
	current := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, current) + ext
}

// TempPathFor returns a unique temporary path next to outputPath that keeps
// its extension.
func TempPathFor(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return filepath.Join(dir, fmt.Sprintf(".%s.%s%s", stem, uuid.New().String(), ext))
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// FileExists checks if a regular file exists at the given path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsUpToDate reports whether outputPath exists and was modified after
// inputPath. A missing input is never up to date.
func IsUpToDate(inputPath, outputPath string) bool {
	out, err := os.Stat(outputPath)
	if err != nil || out.IsDir() {
		return false
	}
	in, err := os.Stat(inputPath)
	if err != nil {
		return false
	}
	return out.ModTime().After(in.ModTime())
}

// CommitFile moves the finished temporary file over the destination.
//
// PARAMETERS:
//   - tempPath: The fully written temporary file.
//   - destPath: The final output path. An existing file is replaced.
//
// RETURNS:
//   - An error if the rename fails. The temporary file is removed in that
//     case.
func CommitFile(tempPath, destPath string) error {
	if err := os.Rename(tempPath, destPath); err != nil {
		_ = RemoveFile(tempPath)
		return fmt.Errorf("failed to move %s to %s: %w", tempPath, destPath, err)
	}
	return nil
}

// RemoveFile deletes path. A file that does not exist is not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// =============================================================================
// XLS to XLSX Converter - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version, build information and the available backends.
//
// COMMAND USAGE:
//   xls2xlsx version
//
// OUTPUT:
//   XLS to XLSX Converter
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//   Readers:    extrame, xlsreader
//   Writers:    excelize, tealeg
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/XLS-to-XLSX-conversion/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

// newVersionCmd builds the 'version' command.
func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Long:  `Display the application version, build date, Go runtime version and the registered backends.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, "XLS to XLSX Converter")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "Readers:    %s\n", strings.Join(registry.Readers(), ", "))
			fmt.Fprintf(out, "Writers:    %s\n", strings.Join(registry.Writers(), ", "))
		},
	}
}

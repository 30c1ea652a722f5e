// =============================================================================
// XLS to XLSX Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself; 'version' is its only subcommand.
//
// COBRA CLI STRUCTURE:
//   rootCmd (xls2xlsx <input-path> [output-path])
//   └── versionCmd (xls2xlsx version)
//
// EXIT CODES:
//   0 : the workbook was converted
//   1 : missing argument, missing input, unavailable backend, or any
//       conversion failure
//
// OUTPUT:
//   One status line goes to stdout. Diagnostic logs go to stderr.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// rootFlags holds the values of the root command's flags.
type rootFlags struct {
	// cfgFile is the path to the configuration file.
	cfgFile string

	// reader and writer override the configured backends.
	reader string
	writer string

	// date1904 forces the 1904 date system.
	date1904 bool

	// verify re-opens the output and checks its sheets.
	verify bool

	// skipUpToDate leaves outputs newer than their input alone.
	skipUpToDate bool

	// verbose enables diagnostic logging on stderr.
	verbose bool
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree. Status lines are written to out and
// logs to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "xls2xlsx <input-path> [output-path]",
		Short: "XLS to XLSX Converter - Transcribe legacy Excel workbooks to the modern format",
		Long: `XLS to XLSX Converter reads a legacy binary Excel workbook (.xls) and
writes an equivalent modern workbook (.xlsx) with the same sheets, in the
same order, holding the same cell values. Date cells are written as real
dates.

If output-path is omitted, the input path is used with its extension
replaced by .xlsx. An input file named like a subcommand must follow --.

Example Usage:
  xls2xlsx report.xls                     # writes report.xlsx
  xls2xlsx report.xls out/report.xlsx     # explicit output path
  xls2xlsx report.xls --reader extrame    # use the compatibility reader
  xls2xlsx report.xls --date1904          # workbook uses the 1904 date system
  xls2xlsx report.xls --skip-up-to-date   # keep report.xlsx if it is newer
  xls2xlsx -- version                     # convert a file named "version"`,

		Args: cobra.RangeArgs(1, 2),

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, flags, args, out, errOut)
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&flags.cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&flags.verbose,
		"verbose",
		"v",
		false,
		"Enable diagnostic logging on stderr",
	)

	// ==========================================================================
	// CONVERSION FLAGS
	// ==========================================================================

	rootCmd.Flags().StringVar(&flags.reader, "reader", "", "Legacy reader backend (overrides config)")
	rootCmd.Flags().StringVar(&flags.writer, "writer", "", "Modern writer backend (overrides config)")
	rootCmd.Flags().BoolVar(&flags.date1904, "date1904", false, "Interpret date serials with the 1904 date system")
	rootCmd.Flags().BoolVar(&flags.verify, "verify", false, "Re-open the output and verify its sheets")
	rootCmd.Flags().BoolVar(&flags.skipUpToDate, "skip-up-to-date", false, "Skip the conversion when the output is newer than the input")

	rootCmd.AddCommand(newVersionCmd(out))

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTIONS
// =============================================================================

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, out, errOut io.Writer) int {
	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}

	rootCmd := newRootCmd(out, errOut)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var missing *registry.MissingDependencyError
		if errors.As(err, &missing) {
			fmt.Fprintf(out, "Error: %v\n", missing)
			fmt.Fprintln(out, missing.Instructions())
			return 1
		}
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Execute runs the CLI with the process arguments and exits with its code.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// =============================================================================
// XLS to XLSX Converter - Convert Command
// =============================================================================
//
// This file implements the conversion run behind the root command.
//
// PROCESSING PIPELINE:
//   1. Load configuration and apply flag overrides
//   2. Resolve the reader and writer backends
//   3. Check that the input file exists
//   4. Derive the output path if none was given
//   5. Skip outputs newer than the input when asked
//   6. Convert and report the result
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/converter"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/logging"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/registry"
	"github.com/ginjaninja78/XLS-to-XLSX-conversion/pkg/utils"

	// Backends register themselves with the registry.
	_ "github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/xlsparser"
	_ "github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/xlsxwriter"
)

// runConvert performs one conversion.
func runConvert(cmd *cobra.Command, flags *rootFlags, args []string, out, errOut io.Writer) error {
	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := config.Load(flags.cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, flags, cfg)

	logger, err := logging.New(errOut, cfg.LogLevel, flags.verbose)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	// =========================================================================
	// STEP 2: RESOLVE BACKENDS
	// =========================================================================
	// An unavailable backend is reported before any file is touched.

	readerFactory, err := registry.Reader(cfg.Reader)
	if err != nil {
		return err
	}
	writerFactory, err := registry.Writer(cfg.Writer)
	if err != nil {
		return err
	}
	logger.Debug("Using reader %q and writer %q", cfg.Reader, cfg.Writer)

	// =========================================================================
	// STEP 3: CHECK INPUT
	// =========================================================================

	inputPath := args[0]
	if !utils.FileExists(inputPath) {
		return fmt.Errorf("%w: %s", converter.ErrInputNotFound, inputPath)
	}

	// =========================================================================
	// STEP 4: OUTPUT PATH
	// =========================================================================

	outputPath := utils.DefaultOutputPath(inputPath, cfg.OutputExtension)
	if len(args) > 1 {
		outputPath = args[1]
	}

	// =========================================================================
	// STEP 5: FRESHNESS
	// =========================================================================

	if cfg.SkipUpToDate && utils.IsUpToDate(inputPath, outputPath) {
		fmt.Fprintf(out, "Up to date: %s → %s\n", inputPath, outputPath)
		return nil
	}

	// =========================================================================
	// STEP 6: CONVERT
	// =========================================================================

	reader := readerFactory(registry.ReaderOptions{
		Date1904: cfg.Date1904(),
		Charset:  cfg.Charset,
	})

	conv := converter.New(reader, writerFactory(), converter.Options{
		Date1904:    cfg.Date1904(),
		AtomicWrite: cfg.Atomic(),
		Verify:      cfg.VerifyOutput,
		Logger:      logger,
	})

	result := conv.Convert(inputPath, outputPath)
	if !result.Success {
		return fmt.Errorf("conversion failed: %w", result.Error)
	}

	fmt.Fprintf(out, "Converted: %s → %s\n", inputPath, outputPath)
	logger.Debug("%d sheet(s), %d cell(s), %d date fallback(s) in %s",
		result.Stats.Sheets, result.Stats.Cells, result.Stats.DateFallbacks, result.Stats.ProcessingTime)

	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	if cmd.Flags().Changed("reader") {
		cfg.Reader = flags.reader
	}
	if cmd.Flags().Changed("writer") {
		cfg.Writer = flags.writer
	}
	if cmd.Flags().Changed("date1904") {
		if flags.date1904 {
			cfg.DateSystem = config.DateSystem1904
		} else {
			cfg.DateSystem = config.DateSystem1900
		}
	}
	if cmd.Flags().Changed("verify") {
		cfg.VerifyOutput = flags.verify
	}
	if cmd.Flags().Changed("skip-up-to-date") {
		cfg.SkipUpToDate = flags.skipUpToDate
	}
	if flags.verbose && cfg.LogLevel == "info" {
		cfg.LogLevel = "debug"
	}
}

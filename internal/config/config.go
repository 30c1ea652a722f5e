// =============================================================================
// XLS to XLSX Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the converter
// configuration. Configuration is optional: without a file every setting
// takes its default, and command-line flags override whatever was loaded.
//
// CONFIGURATION FILE (xls2xlsx.yaml):
//   reader:           xlsreader   # legacy reader backend
//   writer:           excelize    # modern writer backend
//   date_system:      "1900"      # "1900" or "1904"
//   output_extension: .xlsx
//   charset:          utf-8
//   atomic_write:     true
//   verify_output:    false
//   skip_up_to_date:  false
//   log_level:        info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file looked up when --config is not given.
const DefaultConfigFile = "xls2xlsx.yaml"

// Supported date systems.
const (
	DateSystem1900 = "1900"
	DateSystem1904 = "1904"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter settings.
type Config struct {
	// =========================================================================
	// BACKEND SELECTION
	// =========================================================================

	// Reader is the name of the legacy reader backend.
	// Default: "xlsreader"
	Reader string `yaml:"reader"`

	// Writer is the name of the modern writer backend.
	// Default: "excelize"
	Writer string `yaml:"writer"`

	// =========================================================================
	// SOURCE SETTINGS
	// =========================================================================

	// DateSystem selects the epoch used to reinterpret date serials.
	// Valid values: "1900", "1904"
	// Default: "1900"
	DateSystem string `yaml:"date_system"`

	// Charset is passed to readers that need a decoding hint.
	// Default: "utf-8"
	Charset string `yaml:"charset"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputExtension replaces the input extension when no output path is
	// given on the command line.
	// Default: ".xlsx"
	OutputExtension string `yaml:"output_extension"`

	// AtomicWrite saves to a temporary sibling file and renames it into
	// place, so a failed run never leaves a truncated output behind.
	// Default: true
	AtomicWrite *bool `yaml:"atomic_write"`

	// VerifyOutput re-opens the written file and checks its sheet list
	// against the source.
	// Default: false
	VerifyOutput bool `yaml:"verify_output"`

	// SkipUpToDate leaves the output alone when it is newer than the input.
	// Default: false
	SkipUpToDate bool `yaml:"skip_up_to_date"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of diagnostic logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// Date1904 reports whether the 1904 epoch is selected.
func (c *Config) Date1904() bool {
	return c.DateSystem == DateSystem1904
}

// Atomic reports whether atomic writes are enabled.
func (c *Config) Atomic() bool {
	return c.AtomicWrite == nil || *c.AtomicWrite
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - explicit: Whether the user named the file. A missing implicit file
//     yields the defaults; a missing explicit file is an error.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string, explicit bool) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyDefaults(&config)

	// Validate the configuration.
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Reader == "" {
		config.Reader = "xlsreader"
	}
	if config.Writer == "" {
		config.Writer = "excelize"
	}
	if config.DateSystem == "" {
		config.DateSystem = DateSystem1900
	}
	if config.Charset == "" {
		config.Charset = "utf-8"
	}
	if config.OutputExtension == "" {
		config.OutputExtension = ".xlsx"
	}
	if config.AtomicWrite == nil {
		atomic := true
		config.AtomicWrite = &atomic
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// Validate checks the configuration for values the converter cannot use.
// Backend names are resolved later against the registry.
func (c *Config) Validate() error {
	switch c.DateSystem {
	case DateSystem1900, DateSystem1904:
	default:
		return fmt.Errorf("date_system must be %q or %q, got %q", DateSystem1900, DateSystem1904, c.DateSystem)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if !strings.HasPrefix(c.OutputExtension, ".") || len(c.OutputExtension) < 2 {
		return fmt.Errorf("output_extension must start with a dot, got %q", c.OutputExtension)
	}

	if strings.TrimSpace(c.Reader) == "" || strings.TrimSpace(c.Writer) == "" {
		return errors.New("reader and writer must not be blank")
	}

	return nil
}

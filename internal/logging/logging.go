// Package logging adapts zerolog to the converter's Logger interface.
//
// Diagnostics go to stderr in zerolog's console format. Without --verbose
// only warnings and errors are emitted; with it the configured level applies.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger implements converter.Logger on top of a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a console logger writing to w.
//
// PARAMETERS:
//   - w: The destination, normally os.Stderr.
//   - level: One of "debug", "info", "warn", "error".
//   - verbose: Whether the user asked for diagnostic output.
//
// RETURNS:
//   - The logger.
//   - An error if level is not a zerolog level name.
func New(w io.Writer, level string, verbose bool) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	if !verbose && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	zl := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.zl.Debug().Msgf(msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.zl.Info().Msgf(msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.zl.Warn().Msgf(msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.zl.Error().Msgf(msg, args...) }

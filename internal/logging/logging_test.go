package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ginjaninja78/XLS-to-XLSX-conversion/internal/converter"
)

// The adapter must satisfy the converter's logging interface.
var _ converter.Logger = (*Logger)(nil)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		visible []string
		hidden  []string
	}{
		{"quiet", "info", false, []string{"warn-msg", "error-msg"}, []string{"debug-msg", "info-msg"}},
		{"verbose info", "info", true, []string{"info-msg", "warn-msg"}, []string{"debug-msg"}},
		{"verbose debug", "debug", true, []string{"debug-msg", "info-msg"}, nil},
		{"verbose error", "error", true, []string{"error-msg"}, []string{"warn-msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(&buf, tt.level, tt.verbose)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			l.Debug("debug-msg %d", 1)
			l.Info("info-msg %s", "x")
			l.Warn("warn-msg")
			l.Error("error-msg")

			out := buf.String()
			for _, want := range tt.visible {
				if !strings.Contains(out, want) {
					t.Errorf("output %q is missing %q", out, want)
				}
			}
			for _, unwanted := range tt.hidden {
				if strings.Contains(out, unwanted) {
					t.Errorf("output %q unexpectedly contains %q", out, unwanted)
				}
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("Converted %s -> %s", "a.xls", "a.xlsx")
	if !strings.Contains(buf.String(), "Converted a.xls -> a.xlsx") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", true); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}

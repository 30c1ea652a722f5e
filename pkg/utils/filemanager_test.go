package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		ext   string
		want  string
	}{
		{"report.xls", ".xlsx", "report.xlsx"},
		{"data/Q1.XLS", ".xlsx", "data/Q1.xlsx"},
		{"archive/legacy", ".xlsx", "archive/legacy.xlsx"},
		{"my.report.xls", ".xlsx", "my.report.xlsx"},
		{"report.xls", ".xlsm", "report.xlsm"},
	}

	for _, tt := range tests {
		if got := DefaultOutputPath(tt.input, tt.ext); got != tt.want {
			t.Errorf("DefaultOutputPath(%q, %q) = %q, expected %q", tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestTempPathFor(t *testing.T) {
	out := filepath.Join("reports", "q1.xlsx")

	a := TempPathFor(out)
	b := TempPathFor(out)

	if a == b {
		t.Errorf("TempPathFor returned the same path twice: %s", a)
	}
	if filepath.Dir(a) != "reports" {
		t.Errorf("temp path %s is not next to the output", a)
	}
	if filepath.Ext(a) != ".xlsx" {
		t.Errorf("temp path %s lost the output extension", a)
	}
	if !strings.HasPrefix(filepath.Base(a), ".q1.") {
		t.Errorf("temp path %s is not a hidden sibling", a)
	}
}

func TestCommitFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.xlsx")
	tmp := TempPathFor(dest)

	if err := os.WriteFile(dest, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to write destination: %v", err)
	}
	if err := os.WriteFile(tmp, []byte("new"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	if err := CommitFile(tmp, dest); err != nil {
		t.Fatalf("CommitFile failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("destination = %q, expected new", data)
	}
	if FileExists(tmp) {
		t.Errorf("temp file %s still exists", tmp)
	}
}

func TestCommitFileFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".out.tmp.xlsx")
	if err := os.WriteFile(tmp, []byte("new"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	dest := filepath.Join(dir, "missing-dir", "out.xlsx")
	if err := CommitFile(tmp, dest); err == nil {
		t.Fatalf("expected an error committing into a missing directory")
	}
	if FileExists(tmp) {
		t.Errorf("temp file %s was not removed", tmp)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.xls")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if !FileExists(file) {
		t.Errorf("FileExists(%s) = false", file)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(dir) = true, expected false for a directory")
	}
	if FileExists(filepath.Join(dir, "nope.xls")) {
		t.Errorf("FileExists(missing) = true")
	}
	if err := RemoveFile(filepath.Join(dir, "nope.xls")); err != nil {
		t.Errorf("RemoveFile(missing) = %v, expected nil", err)
	}
}

func TestIsUpToDate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xls")
	out := filepath.Join(dir, "in.xlsx")
	for _, p := range []string{in, out} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(in, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	if !IsUpToDate(in, out) {
		t.Errorf("IsUpToDate() = false for an output newer than its input")
	}

	if err := os.Chtimes(out, old.Add(-time.Hour), old.Add(-time.Hour)); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	if IsUpToDate(in, out) {
		t.Errorf("IsUpToDate() = true for an output older than its input")
	}

	if IsUpToDate(in, filepath.Join(dir, "missing.xlsx")) {
		t.Errorf("IsUpToDate() = true for a missing output")
	}
	if IsUpToDate(filepath.Join(dir, "missing.xls"), out) {
		t.Errorf("IsUpToDate() = true for a missing input")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDisassembleReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.dvi")
	if err := os.WriteFile(path, []byte{138, 140}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runDisassemble(path); err != nil {
		t.Fatalf("runDisassemble: %v", err)
	}
}

func TestRunDisassembleMissingFile(t *testing.T) {
	if err := runDisassemble(filepath.Join(t.TempDir(), "missing.dvi")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRunTfmMissingFile(t *testing.T) {
	if err := runTfm(filepath.Join(t.TempDir(), "missing.tfm")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

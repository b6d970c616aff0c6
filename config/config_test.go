package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFullProfile(t *testing.T) {
	raw := []byte(`
input: /var/dumps/heap.bin
output: carved.jsonl
report: report.csv
min-size: 16
replace-newlines: true
fix-incomplete: true
report-all: false
unique: true
max-depth: 64
decompress: zstd
`)
	p, err := parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Input != "/var/dumps/heap.bin" || p.Output != "carved.jsonl" || p.Report != "report.csv" {
		t.Errorf("paths = %q %q %q", p.Input, p.Output, p.Report)
	}
	if p.MinSize == nil || *p.MinSize != 16 {
		t.Errorf("MinSize = %v, want 16", p.MinSize)
	}
	if p.ReplaceNewlines == nil || !*p.ReplaceNewlines {
		t.Errorf("ReplaceNewlines = %v, want true", p.ReplaceNewlines)
	}
	if p.ReportAll == nil || *p.ReportAll {
		t.Errorf("ReportAll = %v, want explicit false", p.ReportAll)
	}
	if p.MaxDepth == nil || *p.MaxDepth != 64 {
		t.Errorf("MaxDepth = %v, want 64", p.MaxDepth)
	}
	if p.Decompress == nil || *p.Decompress != "zstd" {
		t.Errorf("Decompress = %v, want zstd", p.Decompress)
	}
}

func TestParseEmptyProfile(t *testing.T) {
	p, err := parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.MinSize != nil || p.ReplaceNewlines != nil || p.Decompress != nil {
		t.Errorf("empty profile set fields: %+v", p)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := parse([]byte("minsize: 16\n")); err == nil {
		t.Error("parse accepted an unknown key, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load on a missing file succeeded, want error")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("min-size: 8\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.MinSize == nil || *p.MinSize != 8 {
		t.Errorf("MinSize = %v, want 8", p.MinSize)
	}
}

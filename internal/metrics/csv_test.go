package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/mlxbench/internal/benchmark"
)

func sampleRecords() []BenchmarkRecord {
	return []BenchmarkRecord{
		{
			Timestamp:                "2026-08-23T10:30:00",
			Run:                      1,
			Mode:                     benchmark.ModeSynthetic,
			Model:                    "test-model",
			MaxTokens:                32,
			Temperature:              0.2,
			LatencySeconds:           0.07,
			EstimatedNewTokens:       32,
			EstimatedTokensPerSecond: 457.142857,
			LoadSeconds:              0,
		},
		{
			Timestamp:                "2026-08-23T10:30:00",
			Run:                      2,
			Mode:                     benchmark.ModeSynthetic,
			Model:                    "test-model",
			MaxTokens:                32,
			Temperature:              0.2,
			LatencySeconds:           0.08,
			EstimatedNewTokens:       32,
			EstimatedTokensPerSecond: 400,
			LoadSeconds:              0,
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.csv")

	if err := WriteCSV(path, sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, skipped, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped %d rows in a clean artifact", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("record count: %d, want 2", len(records))
	}
	if records[0].Run != 1 || records[1].Run != 2 {
		t.Fatalf("row order not preserved: %+v", records)
	}
	if records[1].EstimatedTokensPerSecond != 400 {
		t.Fatalf("throughput did not survive: %v", records[1].EstimatedTokensPerSecond)
	}
}

func TestWriteCSVFixedPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.csv")
	if err := WriteCSV(path, sampleRecords()[:1]); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(CSVHeader, ",") {
		t.Fatalf("header mismatch: %q", lines[0])
	}
	for _, want := range []string{"0.070000", "457.142857", "0.000000"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row %q missing fixed-precision field %q", lines[1], want)
		}
	}
}

func TestWriteCSVCreatesResultsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results", "benchmark.csv")
	if err := WriteCSV(path, sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
}

func TestWriteCSVLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCSV(filepath.Join(dir, "benchmark.csv"), sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "benchmark.csv" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestReadRecordsSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.csv")
	content := strings.Join([]string{
		strings.Join(CSVHeader, ","),
		"2026-08-23T10:30:00,1,real,test-model,32,0.2,0.500000,16,32.000000,1.000000",
		"2026-08-23T10:30:00,not-a-run,real,test-model,32,0.2,0.500000,16,32.000000,1.000000",
		"too,short",
		"2026-08-23T10:30:00,3,imaginary,test-model,32,0.2,0.500000,16,32.000000,1.000000",
		"2026-08-23T10:30:00,2,real,test-model,32,0.2,0.400000,16,40.000000,1.000000",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	records, skipped, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("surviving record count: %d, want 2", len(records))
	}
	if skipped != 3 {
		t.Fatalf("skipped count: %d, want 3", skipped)
	}
	for _, record := range records {
		if record.Mode != benchmark.ModeReal {
			t.Fatalf("unknown mode survived the read: %q", record.Mode)
		}
	}
}

func TestReadRecordsHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.csv")
	if err := os.WriteFile(path, []byte(strings.Join(CSVHeader, ",")+"\n"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	records, skipped, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(records) != 0 || skipped != 0 {
		t.Fatalf("header-only artifact: records=%d skipped=%d", len(records), skipped)
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	if _, _, err := ReadRecords(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected error for missing artifact")
	}
}

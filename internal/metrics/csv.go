// internal/metrics/csv.go
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mwiater/mlxbench/internal/benchmark"
)

// WriteCSV persists the full record set to path. The write is all-or-nothing:
// rows go to a temp file in the target directory first, which is renamed over
// the destination only after a successful flush.
func WriteCSV(path string, records []BenchmarkRecord) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(CSVHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, record := range records {
		row := []string{
			record.Timestamp,
			strconv.Itoa(record.Run),
			string(record.Mode),
			record.Model,
			strconv.Itoa(record.MaxTokens),
			strconv.FormatFloat(record.Temperature, 'f', -1, 64),
			fmt.Sprintf("%.6f", record.LatencySeconds),
			strconv.Itoa(record.EstimatedNewTokens),
			fmt.Sprintf("%.6f", record.EstimatedTokensPerSecond),
			fmt.Sprintf("%.6f", record.LoadSeconds),
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// ReadRecords parses a persisted artifact back into records. Individual
// malformed rows are skipped and counted; deciding whether zero surviving
// rows is fatal belongs to the caller.
func ReadRecords(path string) (records []BenchmarkRecord, skipped int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows degrade to skips, same as unparsable field values.
			skipped++
			continue
		}
		if header {
			header = false
			continue
		}
		record, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func parseRow(row []string) (BenchmarkRecord, bool) {
	if len(row) != len(CSVHeader) {
		return BenchmarkRecord{}, false
	}
	run, err := strconv.Atoi(row[1])
	if err != nil {
		return BenchmarkRecord{}, false
	}
	mode := benchmark.Mode(row[2])
	if mode != benchmark.ModeReal && mode != benchmark.ModeSynthetic {
		return BenchmarkRecord{}, false
	}
	maxTokens, err := strconv.Atoi(row[4])
	if err != nil {
		return BenchmarkRecord{}, false
	}
	temperature, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return BenchmarkRecord{}, false
	}
	latency, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return BenchmarkRecord{}, false
	}
	newTokens, err := strconv.Atoi(row[7])
	if err != nil {
		return BenchmarkRecord{}, false
	}
	tokensPerSecond, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return BenchmarkRecord{}, false
	}
	loadSeconds, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return BenchmarkRecord{}, false
	}

	return BenchmarkRecord{
		Timestamp:                row[0],
		Run:                      run,
		Mode:                     mode,
		Model:                    row[3],
		MaxTokens:                maxTokens,
		Temperature:              temperature,
		LatencySeconds:           latency,
		EstimatedNewTokens:       newTokens,
		EstimatedTokensPerSecond: tokensPerSecond,
		LoadSeconds:              loadSeconds,
	}, true
}

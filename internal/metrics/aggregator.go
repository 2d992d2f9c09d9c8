// internal/metrics/aggregator.go
package metrics

import (
	"time"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/benchmark"
)

// nowFn is swappable so record timestamps are stable in tests.
var nowFn = time.Now

// Normalize converts the worker's (or the synthetic fallback's) run metrics
// into the denormalized rows that get persisted. All rows of one invocation
// share a single timestamp.
func Normalize(mode benchmark.Mode, loadSeconds float64, rows []benchmark.RunMetric, cfg appconfig.Config) []BenchmarkRecord {
	timestamp := nowFn().Format("2006-01-02T15:04:05")

	records := make([]BenchmarkRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, BenchmarkRecord{
			Timestamp:                timestamp,
			Run:                      row.Run,
			Mode:                     mode,
			Model:                    cfg.Model,
			MaxTokens:                cfg.MaxTokens,
			Temperature:              cfg.Temperature,
			LatencySeconds:           row.LatencySeconds,
			EstimatedNewTokens:       row.EstimatedNewTokens,
			EstimatedTokensPerSecond: row.EstimatedTokensPerSecond,
			LoadSeconds:              loadSeconds,
		})
	}
	return records
}

// Summarize computes summary statistics over the full record set. It is a
// pure function of the records: recomputing it yields identical results.
func Summarize(records []BenchmarkRecord) SummaryStats {
	stats := SummaryStats{Runs: len(records)}
	if len(records) == 0 {
		return stats
	}

	stats.LatencyMinSeconds = records[0].LatencySeconds
	stats.LatencyMaxSeconds = records[0].LatencySeconds

	var latencySum, throughputSum float64
	for _, record := range records {
		latencySum += record.LatencySeconds
		throughputSum += record.EstimatedTokensPerSecond
		if record.LatencySeconds < stats.LatencyMinSeconds {
			stats.LatencyMinSeconds = record.LatencySeconds
		}
		if record.LatencySeconds > stats.LatencyMaxSeconds {
			stats.LatencyMaxSeconds = record.LatencySeconds
		}
	}

	count := float64(len(records))
	stats.LatencyAvgSeconds = latencySum / count
	stats.TokensPerSecondAvg = throughputSum / count
	return stats
}

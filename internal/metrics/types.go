// internal/metrics/types.go
// Package metrics normalizes raw run metrics into persisted benchmark
// records, computes summary statistics, and handles the CSV artifact.
package metrics

import (
	"github.com/mwiater/mlxbench/internal/benchmark"
)

// CSVHeader is the fixed column order of the persisted artifact. The plot
// renderer and any downstream tooling depend on it not changing.
var CSVHeader = []string{
	"timestamp",
	"run",
	"mode",
	"model",
	"max_tokens",
	"temperature",
	"latency_seconds",
	"estimated_new_tokens",
	"estimated_tokens_per_second",
	"load_seconds",
}

// BenchmarkRecord is one denormalized artifact row: the per-run metric plus
// the invocation context repeated per row so every row is self-contained.
type BenchmarkRecord struct {
	Timestamp                string
	Run                      int
	Mode                     benchmark.Mode
	Model                    string
	MaxTokens                int
	Temperature              float64
	LatencySeconds           float64
	EstimatedNewTokens       int
	EstimatedTokensPerSecond float64
	LoadSeconds              float64
}

// SummaryStats are derived from the full record set and printed to the
// operator; they are never persisted.
type SummaryStats struct {
	Runs               int
	LatencyAvgSeconds  float64
	LatencyMinSeconds  float64
	LatencyMaxSeconds  float64
	TokensPerSecondAvg float64
}

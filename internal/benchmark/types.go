// internal/benchmark/types.go
package benchmark

// Mode records whether metrics came from a real worker run or the synthetic
// fallback generator.
type Mode string

const (
	// ModeReal marks metrics produced by a real inference run.
	ModeReal Mode = "real"
	// ModeSynthetic marks deterministic placeholder metrics.
	ModeSynthetic Mode = "synthetic"
)

// RunMetric holds the measurements for one timed generation run. Rows are
// kept in run order; the run index is the x-axis of later plots.
type RunMetric struct {
	Run                      int     `json:"run"`
	LatencySeconds           float64 `json:"latency_seconds"`
	EstimatedNewTokens       int     `json:"estimated_new_tokens"`
	EstimatedTokensPerSecond float64 `json:"estimated_tokens_per_second"`
}

// WorkerResult is the single document a worker emits on completion. The
// worker owns it until the harness decodes it successfully.
type WorkerResult struct {
	LoadSeconds       float64     `json:"load_seconds"`
	LatencyAvgSeconds float64     `json:"latency_avg_seconds"`
	Rows              []RunMetric `json:"rows"`
}

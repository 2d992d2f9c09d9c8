// internal/benchmark/synthetic.go
package benchmark

// SyntheticResult produces deterministic placeholder metrics so the rest of
// the pipeline stays exercisable where the inference backend cannot
// initialize. It is a pure function of (runs, maxTokens): no randomness, no
// real-world timing. Load time is reported as zero in this mode.
func SyntheticResult(runs, maxTokens int) *WorkerResult {
	result := &WorkerResult{
		LoadSeconds: 0,
		Rows:        make([]RunMetric, 0, runs),
	}

	var latencySum float64
	for run := 1; run <= runs; run++ {
		latency := 0.06 + float64(run)*0.01
		newTokens := maxTokens
		tokensPerSecond := 0.0
		if latency > 0 {
			tokensPerSecond = float64(newTokens) / latency
		}
		result.Rows = append(result.Rows, RunMetric{
			Run:                      run,
			LatencySeconds:           latency,
			EstimatedNewTokens:       newTokens,
			EstimatedTokensPerSecond: tokensPerSecond,
		})
		latencySum += latency
	}
	if runs > 0 {
		result.LatencyAvgSeconds = latencySum / float64(runs)
	}
	return result
}

// internal/benchmark/worker.go
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/backend"
	"github.com/mwiater/mlxbench/internal/logging"
	"github.com/mwiater/mlxbench/internal/util"
)

// RunWorker executes the worker side of the benchmark: load the model once,
// then run cfg.Runs timed generations against it. Any load or generation
// error aborts the whole worker; the harness only trusts a complete result.
func RunWorker(ctx context.Context, cfg appconfig.Config, loader backend.Loader) (*WorkerResult, error) {
	logging.LogEvent("worker: loading model %s", cfg.Model)
	generator, loadDuration, err := loader.Load(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.Model, err)
	}
	defer generator.Close()
	logging.LogEvent("worker: model loaded in %.3fs", loadDuration.Seconds())

	result := &WorkerResult{
		LoadSeconds: loadDuration.Seconds(),
		Rows:        make([]RunMetric, 0, cfg.Runs),
	}

	skippedEstimations := 0
	var latencySum float64

	for run := 1; run <= cfg.Runs; run++ {
		start := time.Now()
		generated, err := generator.Generate(ctx, cfg.Prompt, cfg.MaxTokens, cfg.Temperature)
		if err != nil {
			return nil, fmt.Errorf("generation run %d: %w", run, err)
		}
		elapsed := time.Since(start).Seconds()
		logging.LogDebug("worker: run %d output: %s", run, util.TruncateRunes(generated, 80))

		newTokens, ok := estimateNewTokens(ctx, generator, cfg.Prompt, generated)
		if !ok {
			skippedEstimations++
		}
		tokensPerSecond := 0.0
		if elapsed > 0 {
			tokensPerSecond = float64(newTokens) / elapsed
		}

		result.Rows = append(result.Rows, RunMetric{
			Run:                      run,
			LatencySeconds:           elapsed,
			EstimatedNewTokens:       newTokens,
			EstimatedTokensPerSecond: tokensPerSecond,
		})
		latencySum += elapsed
		logging.LogEvent("worker: run %d/%d latency=%.3fs tokens=%d tok/s=%.2f",
			run, cfg.Runs, elapsed, newTokens, tokensPerSecond)
	}

	if cfg.Runs > 0 {
		result.LatencyAvgSeconds = latencySum / float64(cfg.Runs)
	}
	if skippedEstimations > 0 {
		// Token estimates degraded to zero instead of failing the run; the
		// count is surfaced so zero-token rows are not mistaken for real
		// measurements.
		logging.LogEvent("worker: token estimation skipped for %d of %d runs", skippedEstimations, cfg.Runs)
	}
	return result, nil
}

// estimateNewTokens compares tokenized lengths of the generated text and the
// prompt. Tokenization failure degrades the estimate to zero rather than
// failing the run; ok reports whether a real estimate was made.
func estimateNewTokens(ctx context.Context, generator backend.Generator, prompt, generated string) (count int, ok bool) {
	promptTokens, err := generator.CountTokens(ctx, prompt)
	if err != nil {
		return 0, false
	}
	generatedTokens, err := generator.CountTokens(ctx, generated)
	if err != nil {
		return 0, false
	}
	if generatedTokens < promptTokens {
		return 0, true
	}
	return generatedTokens - promptTokens, true
}

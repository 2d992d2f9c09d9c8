// internal/benchmark/harness.go
// Package benchmark contains the benchmark harness: it drives an isolated
// worker subprocess, decodes the worker's single result document, and falls
// back to deterministic synthetic metrics when the worker cannot deliver.
package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/logging"
)

// spawnWorker is swappable so harness behavior can be tested without
// launching real subprocesses.
var spawnWorker = runWorkerProcess

// Harness runs one benchmark invocation. Native inference runtimes can crash
// or abort the host process, so the actual inference happens in a disposable
// subprocess; the harness only ever sees its exit status and stdout.
type Harness struct {
	cfg appconfig.Config
}

// NewHarness constructs a Harness for a validated config.
func NewHarness(cfg appconfig.Config) *Harness {
	return &Harness{cfg: cfg}
}

// Run spawns the worker and returns the benchmark metrics together with the
// mode they were produced in. A worker failure of any kind (non-zero exit,
// timeout, schema-invalid output) is total: in strict mode it is fatal,
// otherwise the synthetic fallback supplies the metrics and the failure is
// reported to the operator.
func (h *Harness) Run(ctx context.Context) (Mode, *WorkerResult, error) {
	output, err := spawnWorker(ctx, h.cfg)
	if err == nil {
		result, decodeErr := DecodeResult(output, h.cfg.Runs)
		if decodeErr == nil {
			return ModeReal, result, nil
		}
		// A clean exit with an untrustworthy document gets no partial credit.
		err = decodeErr
	}

	if h.cfg.Strict {
		return "", nil, fmt.Errorf("benchmark worker failed in strict mode: %w", err)
	}

	logging.LogEvent("benchmark worker failed (%v); using synthetic fallback data", err)
	return ModeSynthetic, SyntheticResult(h.cfg.Runs, h.cfg.MaxTokens), nil
}

// runWorkerProcess re-executes the current binary as the hidden worker
// subcommand and captures its stdout. The worker's stderr is passed through
// so operator-facing progress stays visible. The subprocess is killed when
// the context is canceled or the worker timeout elapses.
func runWorkerProcess(ctx context.Context, cfg appconfig.Config) ([]byte, error) {
	binary, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.WorkerTimeout())
	defer cancel()

	args := []string{
		"worker",
		"--model", cfg.Model,
		"--prompt", cfg.Prompt,
		"--runs", strconv.Itoa(cfg.Runs),
		"--max-tokens", strconv.Itoa(cfg.MaxTokens),
		"--temperature", strconv.FormatFloat(cfg.Temperature, 'f', -1, 64),
		"--host", cfg.Host,
	}
	if cfg.TimeoutSeconds > 0 {
		args = append(args, "--timeout", strconv.Itoa(cfg.TimeoutSeconds))
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	logging.LogDebug("spawning worker: %s %v", binary, args)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("worker terminated: %w", ctxErr)
		}
		return nil, fmt.Errorf("worker exited abnormally: %w", err)
	}
	return stdout.Bytes(), nil
}

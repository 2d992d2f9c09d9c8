package mlxbench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/benchmark"
	"github.com/mwiater/mlxbench/internal/metrics"
)

func setRunFlag(t *testing.T, name, value string) {
	t.Helper()
	flag := runCmd.Flags().Lookup(name)
	if flag == nil {
		t.Fatalf("unknown run flag %q", name)
	}
	prev := flag.Value.String()
	prevChanged := flag.Changed
	if err := runCmd.Flags().Set(name, value); err != nil {
		t.Fatalf("set flag %s=%s: %v", name, value, err)
	}
	t.Cleanup(func() {
		_ = flag.Value.Set(prev)
		flag.Changed = prevChanged
	})
}

func withTestConfig(t *testing.T) {
	t.Helper()
	prev := currentConfig
	currentConfig = &appconfig.Config{Host: appconfig.DefaultHost}
	t.Cleanup(func() { currentConfig = prev })
}

func TestRunRejectsInvalidRunsBeforeSpawning(t *testing.T) {
	withTestConfig(t)
	artifact := filepath.Join(t.TempDir(), "results", "benchmark.csv")
	setRunFlag(t, "runs", "0")
	setRunFlag(t, "output", artifact)

	err := runCmd.RunE(runCmd, nil)
	if err == nil {
		t.Fatalf("expected usage error for --runs 0")
	}

	var coded *exitError
	if !errors.As(err, &coded) {
		t.Fatalf("expected exit-coded error, got %T: %v", err, err)
	}
	if coded.code != exitUsage {
		t.Fatalf("exit code: %d, want %d", coded.code, exitUsage)
	}
	if _, statErr := os.Stat(artifact); !os.IsNotExist(statErr) {
		t.Fatalf("no artifact may be written on a usage error")
	}
}

func TestRunFallsBackToSyntheticAndWritesArtifact(t *testing.T) {
	withTestConfig(t)
	artifact := filepath.Join(t.TempDir(), "results", "benchmark.csv")
	setRunFlag(t, "output", artifact)

	// A canceled context makes the worker spawn fail before any subprocess
	// starts, the same total failure a crashing backend produces.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runCmd.SetContext(ctx)
	t.Cleanup(func() { runCmd.SetContext(context.Background()) })

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("non-strict fallback must complete cleanly: %v", err)
	}

	records, skipped, err := metrics.ReadRecords(artifact)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped %d rows in a fresh artifact", skipped)
	}
	if len(records) != appconfig.DefaultRuns {
		t.Fatalf("artifact rows: %d, want %d", len(records), appconfig.DefaultRuns)
	}
	for i, record := range records {
		if record.Run != i+1 {
			t.Fatalf("row %d has run index %d", i, record.Run)
		}
		if record.Mode != benchmark.ModeSynthetic {
			t.Fatalf("row %d mode: %q, want %q", i, record.Mode, benchmark.ModeSynthetic)
		}
		if record.LoadSeconds != 0 {
			t.Fatalf("row %d load seconds: %v, want 0", i, record.LoadSeconds)
		}
	}

	data, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n")[1:] {
		if !strings.HasSuffix(line, ",0.000000") {
			t.Fatalf("row %q missing fixed-precision zero load_seconds", line)
		}
	}
}

func TestBenchConfigFromFlagsUsesDefaults(t *testing.T) {
	withTestConfig(t)

	cfg := benchConfigFromFlags(runCmd)
	if cfg.Model != appconfig.DefaultModel {
		t.Fatalf("model default: %q", cfg.Model)
	}
	if cfg.Runs != appconfig.DefaultRuns {
		t.Fatalf("runs default: %d", cfg.Runs)
	}
	if cfg.MaxTokens != appconfig.DefaultMaxTokens {
		t.Fatalf("max tokens default: %d", cfg.MaxTokens)
	}
	if cfg.Strict {
		t.Fatalf("strict must default to false")
	}
	if cfg.Host != appconfig.DefaultHost {
		t.Fatalf("host default: %q", cfg.Host)
	}
}

func TestBenchConfigFromFlagsPrefersChangedFlags(t *testing.T) {
	withTestConfig(t)
	setRunFlag(t, "model", "custom/model")
	setRunFlag(t, "runs", "7")
	setRunFlag(t, "strict", "true")

	cfg := benchConfigFromFlags(runCmd)
	if cfg.Model != "custom/model" {
		t.Fatalf("model: %q", cfg.Model)
	}
	if cfg.Runs != 7 {
		t.Fatalf("runs: %d", cfg.Runs)
	}
	if !cfg.Strict {
		t.Fatalf("strict flag ignored")
	}
}

func TestExitErrorCarriesCodeAndMessage(t *testing.T) {
	err := exitWithCode(exitNoRows, errors.New("no plottable rows"))
	if err.Error() != "no plottable rows" {
		t.Fatalf("message: %q", err.Error())
	}
	var coded *exitError
	if !errors.As(err, &coded) || coded.code != exitNoRows {
		t.Fatalf("exit code not preserved: %v", err)
	}
}

// internal/commands/run.go
package mlxbench

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/benchmark"
	"github.com/mwiater/mlxbench/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark local text generation and write CSV results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := benchConfigFromFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return exitWithCode(exitUsage, err)
		}

		// Interrupting the invocation must also reap the worker subprocess.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Loading model: %s\n", cfg.Model)
		fmt.Printf("Running %d benchmark iterations...\n", cfg.Runs)

		mode, result, err := benchmark.NewHarness(cfg).Run(ctx)
		if err != nil {
			// Strict mode: no artifact is written, the failure is the result.
			return exitWithCode(exitBackendFailure, err)
		}
		if mode == benchmark.ModeSynthetic {
			color.New(color.FgYellow).Fprintln(os.Stderr,
				"benchmark worker failed; using synthetic fallback benchmark data (re-run with --strict to fail instead)")
		}
		if cfg.Debug {
			pp.Println(result)
		}

		records := metrics.Normalize(mode, result.LoadSeconds, result.Rows, cfg)
		metrics.PrintRunLines(os.Stdout, records)

		artifactPath := cfg.OutputPath()
		if err := metrics.WriteCSV(artifactPath, records); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}

		stats := metrics.Summarize(records)
		fmt.Println()
		fmt.Println(metrics.RenderSummary(mode, result.LoadSeconds, stats, artifactPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("model", "m", appconfig.DefaultModel, "HF model repo to benchmark")
	runCmd.Flags().StringP("prompt", "p", appconfig.DefaultPrompt, "prompt text for each run")
	runCmd.Flags().IntP("runs", "r", appconfig.DefaultRuns, "number of timed runs")
	runCmd.Flags().Int("max-tokens", appconfig.DefaultMaxTokens, "max new tokens per run")
	runCmd.Flags().Float64("temperature", appconfig.DefaultTemperature, "sampling temperature")
	runCmd.Flags().StringP("output", "o", appconfig.DefaultOutputPath, "CSV output path")
	runCmd.Flags().Bool("strict", false, "fail instead of falling back to synthetic benchmark data")
	runCmd.Flags().Int("worker-timeout", 0, "hard worker deadline in seconds (0 = default)")
}

// benchConfigFromFlags resolves the benchmark config from command-line flags,
// the optional config file, and built-in defaults, in that order.
func benchConfigFromFlags(cmd *cobra.Command) appconfig.Config {
	flags := cmd.Flags()
	cfg := *currentConfig

	cfg.Model = resolveString(flags, "model", "model")
	cfg.Prompt = resolveString(flags, "prompt", "prompt")
	cfg.Runs = resolveInt(flags, "runs", "runs")
	cfg.MaxTokens = resolveInt(flags, "max-tokens", "maxTokens")
	cfg.Temperature = resolveFloat(flags, "temperature", "temperature")
	cfg.Output = resolveString(flags, "output", "output")
	cfg.Strict = resolveBool(flags, "strict", "strict")
	cfg.WorkerTimeoutSeconds = resolveInt(flags, "worker-timeout", "workerTimeoutSeconds")
	if cfg.Host == "" {
		cfg.Host = appconfig.DefaultHost
	}
	return cfg
}

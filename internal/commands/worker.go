// internal/commands/worker.go
package mlxbench

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/backend"
	"github.com/mwiater/mlxbench/internal/benchmark"
)

// workerCmd is the isolated execution side of the benchmark. The run command
// re-executes this binary with `worker` so that a crashing native inference
// runtime only takes down a disposable subprocess. Stdout carries exactly one
// result document; everything else goes to stderr.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Run the isolated benchmark worker (spawned by `mlxbench run`)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		cfg := *currentConfig
		cfg.Model, _ = flags.GetString("model")
		cfg.Prompt, _ = flags.GetString("prompt")
		cfg.Runs, _ = flags.GetInt("runs")
		cfg.MaxTokens, _ = flags.GetInt("max-tokens")
		cfg.Temperature, _ = flags.GetFloat64("temperature")
		if err := cfg.Validate(); err != nil {
			return exitWithCode(exitUsage, err)
		}

		loader := backend.NewLlamaCPPClient(cfg.Host, cfg.RequestTimeout())
		result, err := benchmark.RunWorker(cmd.Context(), cfg, loader)
		if err != nil {
			// Exit non-zero with nothing on stdout; the harness must never
			// see a partial document.
			return err
		}
		return benchmark.EncodeResult(os.Stdout, result)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().String("model", appconfig.DefaultModel, "HF model repo to benchmark")
	workerCmd.Flags().String("prompt", appconfig.DefaultPrompt, "prompt text for each run")
	workerCmd.Flags().Int("runs", appconfig.DefaultRuns, "number of timed runs")
	workerCmd.Flags().Int("max-tokens", appconfig.DefaultMaxTokens, "max new tokens per run")
	workerCmd.Flags().Float64("temperature", appconfig.DefaultTemperature, "sampling temperature")
	_ = workerCmd.MarkFlagRequired("model")
	_ = workerCmd.MarkFlagRequired("prompt")
	_ = workerCmd.MarkFlagRequired("runs")
}

// internal/commands/plot.go
package mlxbench

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/logging"
	"github.com/mwiater/mlxbench/internal/metrics"
	"github.com/mwiater/mlxbench/internal/plot"
)

const (
	defaultPlotOutput = "results/benchmark_latest.png"
	defaultPlotTitle  = "MLX-LM Benchmark"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the benchmark CSV artifact as a dual-axis PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		input, _ := flags.GetString("input")
		output, _ := flags.GetString("output")
		title, _ := flags.GetString("title")

		if _, err := os.Stat(input); err != nil {
			return exitWithCode(exitUsage, fmt.Errorf("input CSV not found: %s", input))
		}

		records, skipped, err := metrics.ReadRecords(input)
		if err != nil {
			return exitWithCode(exitUsage, fmt.Errorf("read input CSV: %w", err))
		}
		if skipped > 0 {
			logging.LogEvent("plot: skipped %d malformed rows in %s", skipped, input)
		}
		if len(records) == 0 {
			return exitWithCode(exitNoRows, fmt.Errorf("no plottable rows found in input CSV"))
		}
		if currentConfig.Debug {
			pp.Println(records)
		}

		if err := plot.Render(records, output, title); err != nil {
			return exitWithCode(exitBackendFailure, fmt.Errorf("render plot: %w", err))
		}
		fmt.Printf("Wrote plot: %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringP("input", "i", appconfig.DefaultOutputPath, "input CSV path produced by `mlxbench run`")
	plotCmd.Flags().StringP("output", "o", defaultPlotOutput, "output PNG path")
	plotCmd.Flags().StringP("title", "t", defaultPlotTitle, "plot title")
}

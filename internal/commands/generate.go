// internal/commands/generate.go
package mlxbench

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/backend"
)

// defaultGeneratePrompt is the single-shot prompt used when none is given.
const defaultGeneratePrompt = "Write one sentence about Apple Silicon efficiency."

// generateCmd runs one in-process generation for quick manual checks. It has
// no subprocess isolation; that is the run command's job.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a single local generation and print the output with timings",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		model := resolveString(flags, "model", "model")
		prompt := resolveString(flags, "prompt", "prompt")
		maxTokens := resolveInt(flags, "max-tokens", "maxTokens")
		temperature := resolveFloat(flags, "temperature", "temperature")

		client := backend.NewLlamaCPPClient(currentConfig.Host, currentConfig.RequestTimeout())

		fmt.Printf("Loading model: %s\n", model)
		generator, loadDuration, err := client.Load(cmd.Context(), model)
		if err != nil {
			return exitWithCode(exitBackendFailure, fmt.Errorf("load model %s: %w", model, err))
		}
		defer generator.Close()

		fmt.Printf("Generating (max_tokens=%d, temperature=%g)...\n", maxTokens, temperature)
		start := time.Now()
		text, err := generator.Generate(cmd.Context(), prompt, maxTokens, temperature)
		if err != nil {
			return exitWithCode(exitBackendFailure, fmt.Errorf("generate: %w", err))
		}
		generationSeconds := time.Since(start).Seconds()

		fmt.Println("\n=== Prompt ===")
		fmt.Println(prompt)
		fmt.Println("\n=== Output ===")
		fmt.Println(text)
		fmt.Println("\n=== Timing ===")
		fmt.Printf("load_seconds: %.3f\n", loadDuration.Seconds())
		fmt.Printf("generation_seconds: %.3f\n", generationSeconds)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("model", "m", appconfig.DefaultModel, "HF model repo to run")
	generateCmd.Flags().StringP("prompt", "p", defaultGeneratePrompt, "prompt text")
	generateCmd.Flags().Int("max-tokens", appconfig.DefaultMaxTokens, "max new tokens")
	generateCmd.Flags().Float64("temperature", appconfig.DefaultTemperature, "sampling temperature")
}

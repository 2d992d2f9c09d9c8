// internal/metrics/report.go
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/mlxbench/internal/benchmark"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	summaryBodyStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// PrintRunLines writes one operator-facing line per benchmark record.
func PrintRunLines(w io.Writer, records []BenchmarkRecord) {
	for _, record := range records {
		fmt.Fprintf(w, "run=%d mode=%s latency=%.3fs estimated_new_tokens=%d tok/s=%.2f\n",
			record.Run, record.Mode, record.LatencySeconds,
			record.EstimatedNewTokens, record.EstimatedTokensPerSecond)
	}
}

// RenderSummary formats the post-run summary block shown on the console.
func RenderSummary(mode benchmark.Mode, loadSeconds float64, stats SummaryStats, artifactPath string) string {
	lines := []string{
		fmt.Sprintf("runs: %d", stats.Runs),
		fmt.Sprintf("mode: %s", mode),
		fmt.Sprintf("load_seconds: %.3f", loadSeconds),
		fmt.Sprintf("latency_avg_seconds: %.3f", stats.LatencyAvgSeconds),
		fmt.Sprintf("latency_min_seconds: %.3f", stats.LatencyMinSeconds),
		fmt.Sprintf("latency_max_seconds: %.3f", stats.LatencyMaxSeconds),
		fmt.Sprintf("tokens_per_second_avg: %.2f", stats.TokensPerSecondAvg),
		fmt.Sprintf("wrote_csv: %s", artifactPath),
	}
	return summaryTitleStyle.Render("Summary") + "\n" +
		summaryBodyStyle.Render(strings.Join(lines, "\n"))
}

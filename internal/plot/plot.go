// internal/plot/plot.go
// Package plot renders the benchmark artifact as a dual-axis line chart.
package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwiater/mlxbench/internal/metrics"
)

var (
	latencyColor    = drawing.ColorFromHex("1f77b4")
	throughputColor = drawing.ColorFromHex("ff7f0e")
)

// Render draws latency and estimated throughput against run index and writes
// a PNG to outputPath. The chart is rendered in memory first; the output file
// is only created once rendering has succeeded.
func Render(records []metrics.BenchmarkRecord, outputPath, title string) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to plot")
	}

	runs := make([]float64, 0, len(records))
	latencies := make([]float64, 0, len(records))
	throughputs := make([]float64, 0, len(records))
	for _, record := range records {
		runs = append(runs, float64(record.Run))
		latencies = append(latencies, record.LatencySeconds)
		throughputs = append(throughputs, record.EstimatedTokensPerSecond)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Run",
		},
		YAxis: chart.YAxis{
			Name: "Latency (seconds)",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Estimated tokens/second",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Latency (s)",
				XValues: runs,
				YValues: latencies,
				Style: chart.Style{
					StrokeColor: latencyColor,
					DotColor:    latencyColor,
					DotWidth:    3,
				},
			},
			chart.ContinuousSeries{
				Name:    "Estimated tokens/s",
				YAxis:   chart.YAxisSecondary,
				XValues: runs,
				YValues: throughputs,
				Style: chart.Style{
					StrokeColor: throughputColor,
					DotColor:    throughputColor,
					DotWidth:    3,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

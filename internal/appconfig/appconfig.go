// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting benchmark configuration.
package appconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultModel is the model identifier benchmarked when none is given.
	DefaultModel = "mlx-community/Qwen2.5-0.5B-Instruct-4bit"
	// DefaultPrompt is the prompt used for each benchmark run when none is given.
	DefaultPrompt = "Summarize why small smoke tests are useful."
	// DefaultHost is the inference server endpoint used when none is given.
	DefaultHost = "http://localhost:8080"
	// DefaultOutputPath is the default CSV artifact path.
	DefaultOutputPath = "results/benchmark_latest.csv"
	// DefaultRuns is the default number of timed benchmark runs.
	DefaultRuns = 3
	// DefaultMaxTokens is the default bound on newly generated tokens per run.
	DefaultMaxTokens = 32
	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.2
	// defaultRequestTimeout is the default timeout for a single backend request.
	defaultRequestTimeout = 600 * time.Second
	// defaultWorkerTimeout bounds the whole worker subprocess lifetime. A worker
	// that outlives it is killed and treated as a crash.
	defaultWorkerTimeout = 10 * time.Minute
	// resultsRoot is the directory relative output paths are placed under.
	resultsRoot = "results"
)

// Config represents one benchmark invocation. It is populated once from flags
// and the optional config file, validated, and never mutated afterwards.
type Config struct {
	Model                string  `json:"model"`
	Prompt               string  `json:"prompt"`
	Runs                 int     `json:"runs"`
	MaxTokens            int     `json:"maxTokens"`
	Temperature          float64 `json:"temperature"`
	Output               string  `json:"output"`
	Strict               bool    `json:"strict"`
	Host                 string  `json:"host"`
	Debug                bool    `json:"debug"`
	TimeoutSeconds       int     `json:"timeoutSeconds,omitempty"`
	WorkerTimeoutSeconds int     `json:"workerTimeoutSeconds,omitempty"`
	LogFile              string  `json:"logFile,omitempty"`
	ConfigPath           string  `json:"-"`
}

// Validate checks the hard preconditions that must hold before any subprocess
// is spawned. A runs value below one is the caller's usage error.
func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("--runs must be >= 1 (got %d)", c.Runs)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("--max-tokens must be >= 1 (got %d)", c.MaxTokens)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("--temperature must be >= 0 (got %g)", c.Temperature)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("--model must not be empty")
	}
	return nil
}

// RequestTimeout returns the timeout duration for backend requests, falling
// back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WorkerTimeout returns the hard deadline for the worker subprocess.
func (c Config) WorkerTimeout() time.Duration {
	if c.WorkerTimeoutSeconds <= 0 {
		return defaultWorkerTimeout
	}
	return time.Duration(c.WorkerTimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "mlxbench.log"
}

// OutputPath returns the artifact path with the results-directory convention
// applied: a relative path that does not already mention the results
// directory is placed under it.
func (c Config) OutputPath() string {
	return NormalizeOutputPath(c.Output)
}

// NormalizeOutputPath places bare relative paths under the results directory.
// Absolute paths and paths that already contain a results element pass
// through unchanged.
func NormalizeOutputPath(path string) string {
	if path == "" {
		return DefaultOutputPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == resultsRoot {
			return path
		}
	}
	return filepath.Join(resultsRoot, path)
}

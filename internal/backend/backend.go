// internal/backend/backend.go
// Package backend abstracts the local inference capability: load a model by
// identifier, generate text from a prompt with a token bound and temperature,
// and count tokens for throughput estimation. The benchmark treats the
// runtime behind this interface as an opaque, possibly unstable black box.
package backend

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that the inference capability cannot be reached at
// all, as opposed to a request that was accepted and then failed.
var ErrUnavailable = errors.New("inference backend unavailable")

// Generator is a loaded model session. It is owned exclusively by the process
// that loaded it and is never shared across the worker boundary.
type Generator interface {
	// Generate produces text for the prompt, bounded by maxTokens, using the
	// given sampling temperature.
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	// CountTokens returns the token count of text under the loaded model's
	// tokenizer.
	CountTokens(ctx context.Context, text string) (int, error)
	// Close releases the session.
	Close() error
}

// Loader loads a model by identifier and reports how long the load took.
type Loader interface {
	Load(ctx context.Context, model string) (Generator, time.Duration, error)
}

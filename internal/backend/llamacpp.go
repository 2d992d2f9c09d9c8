// internal/backend/llamacpp.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/mlxbench/internal/logging"
)

// LlamaCPPClient implements Loader against a llama.cpp-compatible HTTP
// server (llama-server, or a router exposing the same surface).
type LlamaCPPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewLlamaCPPClient constructs a client for the given server URL.
func NewLlamaCPPClient(baseURL string, timeout time.Duration) *LlamaCPPClient {
	return &LlamaCPPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

// Load asks the server to make the model resident and waits for it to report
// healthy. The elapsed wall time is the model load time the benchmark records.
func (c *LlamaCPPClient) Load(ctx context.Context, model string) (Generator, time.Duration, error) {
	start := time.Now()

	if err := c.requestLoad(ctx, model); err != nil {
		return nil, 0, err
	}
	if err := c.waitHealthy(ctx); err != nil {
		return nil, 0, err
	}

	session := &llamaSession{client: c, model: model}
	return session, time.Since(start), nil
}

// requestLoad triggers a load on router-style servers. Plain llama-server
// instances answer 404 or 405 here and auto-load on first request instead.
func (c *LlamaCPPClient) requestLoad(ctx context.Context, model string) error {
	body, err := json.Marshal(map[string]any{"model": model})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/load", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
		return nil
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("llama.cpp: /models/load returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func (c *LlamaCPPClient) waitHealthy(ctx context.Context) error {
	deadline := time.Now().Add(c.timeout)
	for {
		ok, err := c.healthy(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("llama.cpp: server did not become healthy within %s", c.timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (c *LlamaCPPClient) healthy(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusServiceUnavailable:
		// Still loading.
		return false, nil
	default:
		return false, fmt.Errorf("llama.cpp: /health returned %s", resp.Status)
	}
}

// llamaSession is a Generator bound to one model on one server.
type llamaSession struct {
	client *LlamaCPPClient
	model  string
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate issues a non-streaming chat completion and returns the generated text.
func (s *llamaSession) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	payload := map[string]any{
		"model":       s.model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"stream":      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llama.cpp: /v1/chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llama.cpp: chat response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

type tokenizeResponse struct {
	Tokens []int `json:"tokens"`
}

// CountTokens tokenizes text server-side and returns the token count.
func (s *llamaSession) CountTokens(ctx context.Context, text string) (int, error) {
	body, err := json.Marshal(map[string]any{"content": text})
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+"/tokenize", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("llama.cpp: /tokenize returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed tokenizeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, err
	}
	return len(parsed.Tokens), nil
}

// Close releases the session. The HTTP client holds no per-model state.
func (s *llamaSession) Close() error {
	logging.LogDebug("llama.cpp: session for %s closed", s.model)
	return nil
}

// Package llm abstracts the language-model call behind a small capability
// interface so the pipeline can swap providers or use a deterministic stub
// in tests.
package llm

import (
	"context"
	"fmt"
)

// Generator produces free-form model output for a prompt. Responses may or
// may not be valid JSON; interpreting them is the caller's problem.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// StatsProvider is implemented by generators that track call latencies.
type StatsProvider interface {
	StatsSnapshot() StatsSnapshot
}

// RetryableError indicates a transient transport failure (rate limit or
// server error) that is worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

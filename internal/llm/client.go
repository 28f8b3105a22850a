// Package llm is the generation gateway: one Client interface, one adapter
// per backend family, and a Gateway that resolves a persona to its adapter.
package llm

import (
	"context"
	"errors"
	"time"
)

// Client is the uniform shape every backend adapter satisfies: a system
// directive plus a user prompt in, generated text out. Transport errors,
// non-200 statuses, rate limiting past the bounded retry, and empty
// completions all surface as a plain error; retry policy beyond that is the
// caller's problem.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrNoAPIKey is returned when a backend family has no key configured.
var ErrNoAPIKey = errors.New("API key not configured")

// Config holds the per-adapter settings resolved from a persona.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

const defaultTimeout = 2 * time.Minute

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"hivemind/internal/logging"
)

// GeminiClient implements Client on top of the Google GenAI SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiClient creates a Gemini client from config.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, maxTokens: cfg.MaxTokens}, nil
}

// CompleteWithSystem sends the prompt pair and returns the completion text.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	logging.LLMDebug("[gemini] model=%s system_len=%d user_len=%d", c.model, len(systemPrompt), len(userPrompt))

	genCfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(systemPrompt) != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if c.maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.maxTokens)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	out := strings.TrimSpace(result.Text())
	if out == "" {
		return "", fmt.Errorf("no completion returned")
	}
	logging.LLM("[gemini] model=%s completed in %v response_len=%d", c.model, time.Since(start), len(out))
	return out, nil
}

package llm

import (
	"context"
	"fmt"
	"sync"

	"hivemind/internal/persona"
)

// KeySource resolves a backend family name to an API key. config.Config
// satisfies it.
type KeySource interface {
	KeyFor(provider string) string
}

// Factory builds a Client for a backend family. Swappable in tests.
type Factory func(ctx context.Context, provider string, cfg Config) (Client, error)

// Gateway resolves a persona to its backend adapter and runs one
// generation. Adapters are built lazily and cached per provider/model pair,
// so a persona override that changes models picks up a fresh adapter on the
// next turn.
type Gateway struct {
	catalog *persona.Catalog
	keys    KeySource
	factory Factory

	mu      sync.Mutex
	clients map[string]Client
}

// NewGateway creates a gateway over the persona catalog.
func NewGateway(catalog *persona.Catalog, keys KeySource) *Gateway {
	return &Gateway{
		catalog: catalog,
		keys:    keys,
		factory: defaultFactory,
		clients: make(map[string]Client),
	}
}

// SetFactory replaces the adapter factory. Test hook.
func (g *Gateway) SetFactory(f Factory) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.factory = f
	g.clients = make(map[string]Client)
}

// Generate runs one completion for the persona. Every failure mode behind
// the adapter surfaces as a single generation error.
func (g *Gateway) Generate(ctx context.Context, personaID, systemDirective, userPrompt string) (string, error) {
	p, ok := g.catalog.Get(personaID)
	if !ok {
		return "", fmt.Errorf("unknown persona: %s", personaID)
	}

	client, err := g.clientFor(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generation backend for %s unavailable: %w", personaID, err)
	}

	out, err := client.CompleteWithSystem(ctx, systemDirective, userPrompt)
	if err != nil {
		return "", fmt.Errorf("generation failed for %s: %w", personaID, err)
	}
	return out, nil
}

func (g *Gateway) clientFor(ctx context.Context, p persona.Persona) (Client, error) {
	key := fmt.Sprintf("%s|%s|%d", p.Provider, p.Model, p.MaxTokens)

	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[key]; ok {
		return c, nil
	}

	cfg := Config{
		APIKey:    g.keys.KeyFor(p.Provider),
		Model:     p.Model,
		MaxTokens: p.MaxTokens,
	}
	c, err := g.factory(ctx, p.Provider, cfg)
	if err != nil {
		return nil, err
	}
	g.clients[key] = c
	return c, nil
}

func defaultFactory(ctx context.Context, provider string, cfg Config) (Client, error) {
	switch provider {
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	case "xai":
		return NewXAIClient(cfg), nil
	case "deepseek":
		return NewDeepSeekClient(cfg), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

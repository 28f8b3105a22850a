package llm

// XAIClient talks to the xAI API, which is wire-compatible with the OpenAI
// chat/completions protocol.
type XAIClient struct {
	*OpenAIClient
}

// DefaultXAIConfig returns sensible defaults.
func DefaultXAIConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: "https://api.x.ai/v1",
		Model:   "grok-2-latest",
		Timeout: defaultTimeout,
	}
}

// NewXAIClient creates an xAI client from config.
func NewXAIClient(cfg Config) *XAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "grok-2-latest"
	}
	return &XAIClient{OpenAIClient: NewOpenAIClient(cfg)}
}

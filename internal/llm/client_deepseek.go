package llm

// DeepSeekClient talks to the DeepSeek API, which is wire-compatible with
// the OpenAI chat/completions protocol.
type DeepSeekClient struct {
	*OpenAIClient
}

// DefaultDeepSeekConfig returns sensible defaults.
func DefaultDeepSeekConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: "https://api.deepseek.com/v1",
		Model:   "deepseek-chat",
		Timeout: defaultTimeout,
	}
}

// NewDeepSeekClient creates a DeepSeek client from config.
func NewDeepSeekClient(cfg Config) *DeepSeekClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	return &DeepSeekClient{OpenAIClient: NewOpenAIClient(cfg)}
}

package llm

import (
	"context"
	"fmt"
)

// NewClient creates the backend selected by cfg.Provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderXAI, ProviderZAI, ProviderOpenRouter:
		return NewOpenAIClientWithConfig(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicClientWithConfig(cfg), nil
	case ProviderGemini:
		return NewGeminiClientWithConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

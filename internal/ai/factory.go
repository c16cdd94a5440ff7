package ai

import (
	"context"
	"fmt"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderPerplexity = "perplexity"
)

// NewClient builds the completion client once at startup; the result is shared by all pipelines.
func NewClient(ctx context.Context, provider, apiKey string, timeout time.Duration) (Client, error) {
	switch provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, apiKey, timeout)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, timeout)
	case ProviderPerplexity:
		return NewPerplexityClient(apiKey, timeout)
	}
	return nil, fmt.Errorf("unknown completion provider %q", provider)
}

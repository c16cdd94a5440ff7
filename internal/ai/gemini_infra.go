package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates the process-wide Gemini client. timeout == 0 means no client timeout.
func NewGeminiClient(ctx context.Context, apiKey string, timeout time.Duration) (*GeminiClient, error) {
	return newGeminiClient(ctx, apiKey, timeout, "")
}

func newGeminiClient(ctx context.Context, apiKey string, timeout time.Duration, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) Generate(ctx context.Context, req domain.CompletionRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxOutputTokens),
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("gemini: empty response")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: no text in response (%s)", emptyReason(resp))
	}
	return text, nil
}

// emptyReason: почему модель не вернула текст (блокировка промпта или finish reason).
func emptyReason(resp *genai.GenerateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "no candidates"
	}
	if fr := resp.Candidates[0].FinishReason; fr != "" {
		return "finish reason: " + string(fr)
	}
	return "empty candidate"
}

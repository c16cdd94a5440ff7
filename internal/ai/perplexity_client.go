package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/expert_reader/internal/domain"
)

const (
	DefaultPerplexityModel = "sonar"
	perplexityURL          = "https://api.perplexity.ai/chat/completions"
)

type PerplexityClient struct {
	apiKey string
	url    string
	client *http.Client
}

func NewPerplexityClient(apiKey string, timeout time.Duration) (*PerplexityClient, error) {
	if apiKey == "" {
		return nil, errors.New("perplexity api key is required")
	}

	return &PerplexityClient{
		apiKey: apiKey,
		url:    perplexityURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model       string              `json:"model"`
	Messages    []perplexityMessage `json:"messages"`
	Temperature float32             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// PerplexityStatusError is returned for any non-200 reply.
type PerplexityStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *PerplexityStatusError) Error() string {
	return fmt.Sprintf("perplexity status: %s %s", e.Status, e.Body)
}

func (c *PerplexityClient) Name() string { return "perplexity" }

func (c *PerplexityClient) Generate(ctx context.Context, req domain.CompletionRequest) (string, error) {
	b, err := json.Marshal(perplexityRequest{
		Model:       req.Model,
		Messages:    []perplexityMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &PerplexityStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	var out perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("perplexity decode: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", errors.New("perplexity: no choices in response")
	}
	choice := out.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("perplexity: no text in response (finish reason: %s)", choice.FinishReason)
	}

	return choice.Message.Content, nil
}

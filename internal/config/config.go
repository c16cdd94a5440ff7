package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Vovarama1992/expert_reader/internal/ai"
	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	TelegramToken string

	Provider          string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	PerplexityAPIKey  string
	Model             string
	CompletionTimeout time.Duration

	AdminChatID        int64
	Port               string
	PollTimeout        int
	DropPendingUpdates bool
}

// Load reads .env files (if any) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	cfg := &Config{
		TelegramToken:      k.String("telegram_token"),
		Provider:           strings.ToLower(k.String("completion_provider")),
		GeminiAPIKey:       k.String("gemini_api_key"),
		OpenAIAPIKey:       k.String("openai_api_key"),
		PerplexityAPIKey:   k.String("perplexity_api_key"),
		Model:              k.String("completion_model"),
		AdminChatID:        k.Int64("admin_chat_id"),
		Port:               k.String("port"),
		PollTimeout:        10,
		DropPendingUpdates: true,
	}

	if raw := k.String("completion_timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("COMPLETION_TIMEOUT: %w", err)
		}
		cfg.CompletionTimeout = d
	}
	if k.String("telegram_poll_timeout") != "" {
		cfg.PollTimeout = k.Int("telegram_poll_timeout")
	}
	if k.String("drop_pending_updates") != "" {
		cfg.DropPendingUpdates = k.Bool("drop_pending_updates")
	}

	if cfg.Provider == "" {
		cfg.Provider = ai.ProviderGemini
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}

	return cfg, nil
}

func defaultModel(provider string) string {
	switch provider {
	case ai.ProviderOpenAI:
		return ai.DefaultOpenAIModel
	case ai.ProviderPerplexity:
		return ai.DefaultPerplexityModel
	}
	return prompts.DefaultModel
}

// CompletionAPIKey returns the key of the selected provider.
func (c *Config) CompletionAPIKey() string {
	switch c.Provider {
	case ai.ProviderOpenAI:
		return c.OpenAIAPIKey
	case ai.ProviderPerplexity:
		return c.PerplexityAPIKey
	}
	return c.GeminiAPIKey
}

func keyVar(provider string) string {
	switch provider {
	case ai.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ai.ProviderPerplexity:
		return "PERPLEXITY_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// Validate reports every missing secret; the caller must not start without them.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ai.ProviderGemini, ai.ProviderOpenAI, ai.ProviderPerplexity:
	default:
		errs = append(errs, fmt.Errorf("COMPLETION_PROVIDER %q: must be one of gemini, openai, perplexity", c.Provider))
	}
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is not set"))
	}
	if c.CompletionAPIKey() == "" {
		errs = append(errs, fmt.Errorf("%s is not set", keyVar(c.Provider)))
	}
	if c.PollTimeout < 0 {
		errs = append(errs, errors.New("TELEGRAM_POLL_TIMEOUT must be >= 0"))
	}

	return errors.Join(errs...)
}

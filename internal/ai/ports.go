package ai

import (
	"context"

	"github.com/Vovarama1992/expert_reader/internal/domain"
)

// Client: один вызов внешнего сервиса генерации.
type Client interface {
	Name() string
	Generate(ctx context.Context, req domain.CompletionRequest) (string, error)
}

type Service interface {
	// Complete never returns an error: every failure becomes domain.Failure.
	Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult
}

package error_notificator

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	"go.uber.org/zap"
)

const (
	ErrorPrefix = "❌ Error: "

	// MaxErrorLen bounds the user-visible part of an error reply, in runes.
	MaxErrorLen = 100

	MissingInputText = "❌ Please provide text to analyze: /analyze your text"
)

// Service: политика ответа на ошибки (что видит пользователь и что уходит в лог).
type Service struct {
	infra Notificator
	log   *zap.Logger
}

func NewService(infra Notificator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{infra: infra, log: log.Named("errors")}
}

func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// MissingInput is answered without a completion call, so nothing is logged as a service error.
func (s *Service) MissingInput(chatID int64) domain.OutgoingMessage {
	return domain.OutgoingMessage{ChatID: chatID, Text: MissingInputText}
}

// Reply logs the full failure, notifies the admin and returns the truncated user reply.
func (s *Service) Reply(ctx context.Context, chatID int64, f *domain.Failure) domain.OutgoingMessage {
	s.log.Error("message failed",
		zap.String("request_id", domain.RequestID(ctx)),
		zap.Int64("chat_id", chatID),
		zap.String("kind", string(f.Kind)),
		zap.String("message", f.Message),
	)

	if s.infra != nil {
		details := fmt.Sprintf("Chat: %d\nKind: %s", chatID, f.Kind)
		if err := s.infra.Notify(ctx, f, details); err != nil {
			s.log.Warn("admin notify failed", zap.Error(err))
		}
	}

	return domain.OutgoingMessage{
		ChatID: chatID,
		Text:   ErrorPrefix + Truncate(f.Message, MaxErrorLen),
	}
}

// TransportError has no addressable conversation: log only.
func (s *Service) TransportError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	s.log.Error("transport error",
		zap.String("request_id", domain.RequestID(ctx)),
		zap.String("kind", string(domain.UnhandledTransportError)),
		zap.Error(err),
	)
}

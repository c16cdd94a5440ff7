package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	"github.com/dustin/go-humanize"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type AiService struct {
	client Client
	log    *zap.Logger
}

func NewAiService(client Client, log *zap.Logger) *AiService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AiService{
		client: client,
		log:    log.Named("ai"),
	}
}

var statusPattern = regexp.MustCompile(`(?:status code:|error|status:)\s*(\d{3})\b`)

// statusCode extracts the HTTP status from provider SDK errors; 0 if unknown.
func statusCode(err error) int {
	var oaAPI *openai.APIError
	if errors.As(err, &oaAPI) {
		return oaAPI.HTTPStatusCode
	}
	var oaReq *openai.RequestError
	if errors.As(err, &oaReq) {
		return oaReq.HTTPStatusCode
	}
	var gmErr genai.APIError
	if errors.As(err, &gmErr) {
		return gmErr.Code
	}
	var pxErr *PerplexityStatusError
	if errors.As(err, &pxErr) {
		return pxErr.StatusCode
	}

	if m := statusPattern.FindStringSubmatch(strings.ToLower(err.Error())); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

// Diagnose maps a provider error to a short operator-facing hint.
func Diagnose(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "completion request timed out"
	}

	msg := strings.ToLower(err.Error())
	code := statusCode(err)

	switch {
	case code == 401, code == 403, strings.Contains(msg, "api key not valid"):
		return "invalid API key"
	case code == 404:
		return "model not found"
	case code == 429, strings.Contains(msg, "quota"):
		return "quota exceeded"
	case code == 400 && strings.Contains(msg, "model"):
		return "invalid model name"
	case code == 400:
		return "malformed request"
	case code >= 500 && code < 600:
		return "provider internal error"
	}
	return "unknown provider error"
}

// Complete делает ровно одну попытку: без ретраев и backoff.
func (s *AiService) Complete(ctx context.Context, req domain.CompletionRequest) (res domain.CompletionResult) {
	start := time.Now()
	log := s.log.With(
		zap.String("request_id", domain.RequestID(ctx)),
		zap.String("provider", s.client.Name()),
		zap.String("model", req.Model),
	)

	log.Info("completion start",
		zap.String("prompt_size", humanize.Bytes(uint64(len(req.Prompt)))),
		zap.Int("max_output_tokens", req.MaxOutputTokens),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("completion panic", zap.Any("panic", r))
			res = domain.Failed(domain.CompletionServiceError, fmt.Sprint(r))
		}
	}()

	text, err := s.client.Generate(ctx, req)
	elapsed := fmt.Sprintf("%.1fs", time.Since(start).Seconds())

	if err != nil {
		log.Warn("completion failed",
			zap.String("elapsed", elapsed),
			zap.String("diagnosis", Diagnose(err)),
			zap.Error(err),
		)
		return domain.Failed(domain.CompletionServiceError, err.Error())
	}

	if strings.TrimSpace(text) == "" {
		log.Warn("completion empty", zap.String("elapsed", elapsed))
		return domain.Failed(domain.CompletionServiceError, s.client.Name()+": empty completion")
	}

	log.Info("completion done",
		zap.String("elapsed", elapsed),
		zap.String("reply_size", humanize.Bytes(uint64(len(text)))),
	)
	return domain.Success(text)
}

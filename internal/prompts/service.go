package prompts

import (
	"fmt"

	"github.com/Vovarama1992/expert_reader/internal/domain"
)

const (
	DefaultModel = "models/gemini-2.5-flash"
	Temperature  = float32(0.1)

	AnalysisPrefix = "You are a construction expert. Analyze: "
	ChatPrefix     = "Respond as a construction expert to: "
)

var templates = map[Mode]Prompt{
	ModeAnalysis: {Mode: ModeAnalysis, Prefix: AnalysisPrefix, MaxOutputTokens: 1000, Temperature: Temperature},
	ModeChat:     {Mode: ModeChat, Prefix: ChatPrefix, MaxOutputTokens: 500, Temperature: Temperature},
}

type service struct {
	model string
}

func NewService(model string) Service {
	if model == "" {
		model = DefaultModel
	}
	return &service{model: model}
}

func (s *service) Build(mode Mode, text string) domain.CompletionRequest {
	tpl, ok := templates[mode]
	if !ok {
		// неизвестный режим: программная ошибка вызывающего кода
		panic(fmt.Sprintf("prompts: unknown mode %q", mode))
	}

	return domain.CompletionRequest{
		Model:           s.model,
		Prompt:          tpl.Prefix + text,
		Temperature:     tpl.Temperature,
		MaxOutputTokens: tpl.MaxOutputTokens,
	}
}

func (s *service) ListAll() []*Prompt {
	out := make([]*Prompt, 0, len(templates))
	for _, m := range []Mode{ModeAnalysis, ModeChat} {
		p := templates[m]
		out = append(out, &p)
	}
	return out
}

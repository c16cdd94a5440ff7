package prompts

import "github.com/Vovarama1992/expert_reader/internal/domain"

// Mode: режим построения промпта.
type Mode string

const (
	ModeAnalysis Mode = "analysis"
	ModeChat     Mode = "chat"
)

type Service interface {
	// Build embeds text verbatim after the mode's fixed prefix.
	Build(mode Mode, text string) domain.CompletionRequest
	ListAll() []*Prompt
}

type Prompt struct {
	Mode            Mode    `json:"mode"`
	Prefix          string  `json:"prefix"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float32 `json:"temperature"`
}

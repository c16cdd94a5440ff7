package dispatch

import "github.com/Vovarama1992/expert_reader/internal/domain"

const (
	HeaderAnalysis = "📊 ANALYSIS RESULT"
	HeaderChat     = "🤖 EXPERT REPLY"
)

func plain(s string) string { return s }

func bold(s string) string { return "*" + s + "*" }

// Format wraps a completion in the header template. Markdown carries the bold header,
// Text is the fallback for transports that cannot render markup.
func Format(chatID int64, header, body string) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		ChatID:    chatID,
		Text:      header + "\n\n" + body,
		Markdown:  bold(header) + "\n\n" + body,
		ParseMode: domain.ParseModeMarkdown,
	}
}

func fromTemplate(chatID int64, render func(b func(string) string) string) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		ChatID:    chatID,
		Text:      render(plain),
		Markdown:  render(bold),
		ParseMode: domain.ParseModeMarkdown,
	}
}

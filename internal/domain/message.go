package domain

import "strings"

// Intent: классифицированное назначение входящего сообщения.
type Intent string

const (
	IntentNone    Intent = ""
	IntentStart   Intent = "start"
	IntentHelp    Intent = "help"
	IntentAnalyze Intent = "analyze"
	IntentChat    Intent = "chat"
)

// Intents lists every intent that must have a handler.
var Intents = []Intent{IntentStart, IntentHelp, IntentAnalyze, IntentChat}

// IncomingMessage is produced by the transport and consumed once by the router.
type IncomingMessage struct {
	RequestID string
	SenderID  int64
	ChatID    int64
	Text      string

	// Command is set for "/name ..." messages, without the slash and @bot suffix.
	Command string
	Args    []string

	Intent Intent
}

// IsCommand reports whether the transport recognized a bot command.
func (m IncomingMessage) IsCommand() bool {
	return m.Command != ""
}

// ArgsText joins command arguments the way they were typed, minus extra whitespace.
func (m IncomingMessage) ArgsText() string {
	return strings.Join(m.Args, " ")
}

// ParseText splits raw text into command and args. Used by transports
// that do not classify commands themselves (console).
func ParseText(chatID int64, text string) IncomingMessage {
	msg := IncomingMessage{ChatID: chatID, SenderID: chatID, Text: text}
	if !strings.HasPrefix(text, "/") {
		return msg
	}

	fields := strings.Fields(text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd == "" {
		return msg
	}

	msg.Command = cmd
	msg.Args = fields[1:]
	return msg
}

const (
	ParseModePlain    = ""
	ParseModeMarkdown = "Markdown"
)

// OutgoingMessage: ровно один ответ на одно входящее сообщение.
type OutgoingMessage struct {
	ChatID int64

	// Text is the plain rendering; always set.
	Text string

	// Markdown is the rich rendering sent with ParseMode when ParseMode is set.
	Markdown  string
	ParseMode string
}

// Rich reports whether the message should be sent with markup.
func (m OutgoingMessage) Rich() bool {
	return m.ParseMode != ParseModePlain && m.Markdown != ""
}

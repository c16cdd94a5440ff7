package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Typing: показываем, что бот "печатает"
func (app *BotApp) Typing(_ context.Context, chatID int64) {
	if _, err := app.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		app.log.Debug("chat action failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// isMarkupRejected: Telegram отверг разметку, само сообщение не доставлено.
func isMarkupRejected(err error) bool {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return false
	}
	return tgErr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(tgErr.Message), "can't parse entities")
}

// deliver sends the rich rendering first. Only a markup rejection falls back
// to plain text; any other error is returned as is.
func (app *BotApp) deliver(out domain.OutgoingMessage) error {
	if out.Rich() {
		m := tgbotapi.NewMessage(out.ChatID, out.Markdown)
		m.ParseMode = out.ParseMode

		_, err := app.bot.Send(m)
		if err == nil || !isMarkupRejected(err) {
			return err
		}
		app.log.Warn("markdown rejected, falling back to plain text",
			zap.Int64("chat_id", out.ChatID),
			zap.Error(err),
		)
	}

	_, err := app.bot.Send(tgbotapi.NewMessage(out.ChatID, out.Text))
	return err
}

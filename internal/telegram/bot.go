package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (app *BotApp) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			app.errs.TransportError(ctx, fmt.Errorf("panic handling update %d: %v", upd.UpdateID, r))
		}
	}()

	in, ok := toIncoming(upd, app.username)
	if !ok {
		return
	}

	app.log.Debug("update",
		zap.Int("update_id", upd.UpdateID),
		zap.Int64("chat_id", in.ChatID),
		zap.Int64("from", in.SenderID),
	)

	out, ok := app.router.Dispatch(ctx, in)
	if !ok {
		return
	}

	if err := app.deliver(out); err != nil {
		app.errs.TransportError(ctx, fmt.Errorf("deliver to chat %d: %w", out.ChatID, err))
	}
}

// toIncoming: только обычные сообщения; edited/callback/channel posts пропускаем.
// Команды, адресованные другому боту ("/help@OtherBot"), тоже пропускаем.
func toIncoming(u tgbotapi.Update, username string) (domain.IncomingMessage, bool) {
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return domain.IncomingMessage{}, false
	}

	in := domain.IncomingMessage{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		in.SenderID = msg.From.ID
	}
	if msg.IsCommand() {
		if !addressedTo(msg.CommandWithAt(), username) {
			return domain.IncomingMessage{}, false
		}
		in.Command = msg.Command()
		in.Args = strings.Fields(msg.CommandArguments())
	}

	return in, true
}

func addressedTo(cmdWithAt, username string) bool {
	i := strings.Index(cmdWithAt, "@")
	if i < 0 || username == "" {
		return true
	}
	return strings.EqualFold(cmdWithAt[i+1:], username)
}

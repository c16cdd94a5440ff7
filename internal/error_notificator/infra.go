package error_notificator

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	adminChatID int64
	bot         sender
}

func NewInfra(adminChatID int64) *Infra {
	return &Infra{adminChatID: adminChatID}
}

// SetBot: бот появляется только после подключения к Telegram
func (i *Infra) SetBot(bot sender) {
	i.bot = bot
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.adminChatID == 0 {
		return nil
	}
	if i.bot == nil {
		return errors.New("error_notificator: bot not set")
	}

	text := fmt.Sprintf("❗ Bot error\n\nError: %v\n\nDetails: %s", err, details)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		return fmt.Errorf("notify admin %d: %w", i.adminChatID, sendErr)
	}
	return nil
}

package telegram

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI: подмножество *tgbotapi.BotAPI, которым пользуется транспорт.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.IncomingMessage) (domain.OutgoingMessage, bool)
}

type TransportErrors interface {
	TransportError(ctx context.Context, err error)
}

type BotApp struct {
	bot         BotAPI
	router      Dispatcher
	errs        TransportErrors
	log         *zap.Logger
	pollTimeout int

	// username of the bot itself; "/cmd@other" is ignored when set.
	username string
}

func NewBotApp(bot BotAPI, errs TransportErrors, pollTimeout int, log *zap.Logger) *BotApp {
	if log == nil {
		log = zap.NewNop()
	}
	app := &BotApp{
		bot:         bot,
		errs:        errs,
		log:         log.Named("telegram"),
		pollTimeout: pollTimeout,
	}
	if api, ok := bot.(*tgbotapi.BotAPI); ok {
		app.username = api.Self.UserName
	}
	return app
}

// SetRouter: роутер зависит от BotApp (typing), поэтому передаётся после создания
func (app *BotApp) SetRouter(router Dispatcher) {
	app.router = router
}

// DropPending discards updates that queued up while the bot was offline.
func (app *BotApp) DropPending() error {
	if _, err := app.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("drop pending updates: %w", err)
	}
	return nil
}

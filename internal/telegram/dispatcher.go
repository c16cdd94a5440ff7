package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run polls updates until ctx is done. Each update is handled in its own goroutine;
// in-flight pipelines are not cancelled on shutdown and Run waits for them.
func (app *BotApp) Run(ctx context.Context) error {
	if app.router == nil {
		return errors.New("telegram: router not set")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = app.pollTimeout
	updates := app.bot.GetUpdatesChan(u)

	app.log.Info("polling started")

	pipelineCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			app.log.Info("polling stopping")
			app.bot.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				app.handleUpdate(pipelineCtx, upd)
			}()
		}
	}
}

package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// PollLogger implements tgbotapi.BotLogger. The library reports failed
// getUpdates calls only through this logger, so errors are forwarded to the
// transport error policy and everything else goes to zap.
type PollLogger struct {
	errs TransportErrors
	log  *zap.Logger
}

func NewPollLogger(errs TransportErrors, log *zap.Logger) *PollLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &PollLogger{errs: errs, log: log.Named("tgbotapi")}
}

func (l *PollLogger) Println(v ...interface{}) {
	for _, a := range v {
		if err, ok := a.(error); ok {
			l.transportError(err)
			return
		}
	}
	l.log.Warn(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l *PollLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *PollLogger) transportError(err error) {
	if l.errs == nil {
		l.log.Error("polling failed", zap.Error(err))
		return
	}
	l.errs.TransportError(context.Background(), fmt.Errorf("get updates: %w", err))
}

var _ tgbotapi.BotLogger = (*PollLogger)(nil)

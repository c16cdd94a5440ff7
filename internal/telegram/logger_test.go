package telegram

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPollLogger_ForwardsPollingErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	errs := &fakeErrs{}
	l := NewPollLogger(errs, zap.New(core))

	// the order tgbotapi uses when getUpdates fails
	conflict := &tgbotapi.Error{Code: 409, Message: "Conflict: terminated by other getUpdates request"}
	l.Println(conflict)
	l.Println("Failed to get updates, retrying in 3 seconds...")

	require.Len(t, errs.errs, 1)
	assert.ErrorIs(t, errs.errs[0], conflict)
	assert.Contains(t, errs.errs[0].Error(), "get updates")

	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warn, 1)
	assert.Equal(t, "Failed to get updates, retrying in 3 seconds...", warn[0].Message)
}

func TestPollLogger_PrintfIsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewPollLogger(&fakeErrs{}, zap.New(core))

	l.Printf("Endpoint: %s, params: %v\n", "getMe", map[string]string{})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "Endpoint: getMe, params: map[]", entries[0].Message)
}

func TestPollLogger_WithoutPolicyLogsError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewPollLogger(nil, zap.New(core))

	l.Println(errors.New("dial tcp: i/o timeout"))

	failed := logs.FilterMessage("polling failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
}

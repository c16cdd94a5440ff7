package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/expert_reader/internal/ai"
	"github.com/Vovarama1992/expert_reader/internal/config"
	"github.com/Vovarama1992/expert_reader/internal/delivery"
	"github.com/Vovarama1992/expert_reader/internal/dispatch"
	"github.com/Vovarama1992/expert_reader/internal/error_notificator"
	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/Vovarama1992/expert_reader/internal/telegram"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "expert_reader"

var envFiles []string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Telegram construction-expert bot backed by a generative AI service",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Poll Telegram and answer messages",
		RunE:  runServe,
	})
	root.AddCommand(newAskCmd())

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// CLIENTS (AI / TELEGRAM)
	// =========================================================================

	client, err := ai.NewClient(ctx, cfg.Provider, cfg.CompletionAPIKey(), cfg.CompletionTimeout)
	if err != nil {
		return fmt.Errorf("init %s client: %w", cfg.Provider, err)
	}
	zl.Log(logger.LogEntry{Level: "info", Message: client.Name() + " connected, model " + cfg.Model, Service: serviceName})

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("init telegram bot: %w", err)
	}

	// =========================================================================
	// SERVICES
	// =========================================================================

	aiService := ai.NewAiService(client, baseLogger)
	promptService := prompts.NewService(cfg.Model)

	errInfra := error_notificator.NewInfra(cfg.AdminChatID)
	errInfra.SetBot(bot)
	errService := error_notificator.NewService(errInfra, baseLogger)

	if err := tgbotapi.SetLogger(telegram.NewPollLogger(errService, baseLogger)); err != nil {
		return fmt.Errorf("init telegram logger: %w", err)
	}

	botApp := telegram.NewBotApp(bot, errService, cfg.PollTimeout, baseLogger)

	router, err := dispatch.NewRouter(promptService, aiService, errService, botApp, baseLogger)
	if err != nil {
		return fmt.Errorf("init router: %w", err)
	}
	botApp.SetRouter(router)

	if cfg.DropPendingUpdates {
		if err := botApp.DropPending(); err != nil {
			errService.TransportError(ctx, err)
		}
	}

	// =========================================================================
	// HTTP (liveness for the hosting platform)
	// =========================================================================

	if cfg.Port != "" {
		r := chi.NewRouter()
		delivery.RegisterRoutes(r, prompts.NewHandler(promptService))

		srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			zl.Log(logger.LogEntry{Level: "info", Message: "listening at " + srv.Addr, Service: serviceName})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zl.Log(logger.LogEntry{Level: "error", Message: "http server failed", Service: serviceName, Error: err})
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// =========================================================================
	// START BOT
	// =========================================================================

	zl.Log(logger.LogEntry{Level: "info", Message: "bot started: @" + bot.Self.UserName, Service: serviceName})

	return botApp.Run(ctx)
}

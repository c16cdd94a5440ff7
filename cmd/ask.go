package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/expert_reader/internal/ai"
	"github.com/Vovarama1992/expert_reader/internal/config"
	"github.com/Vovarama1992/expert_reader/internal/dispatch"
	"github.com/Vovarama1992/expert_reader/internal/domain"
	"github.com/Vovarama1992/expert_reader/internal/error_notificator"
	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCompletionClient is swapped in tests.
var newCompletionClient = ai.NewClient

func newAskCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Run one message through the bot pipeline and print the reply",
		Example: `  expert_reader ask "/analyze cracks in foundation wall"
  expert_reader ask "What causes mold?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if cfg.CompletionAPIKey() == "" {
				return fmt.Errorf("no API key for provider %q", cfg.Provider)
			}

			log := zap.NewNop()
			if verbose {
				log, _ = zap.NewDevelopment()
			}

			client, err := newCompletionClient(cmd.Context(), cfg.Provider, cfg.CompletionAPIKey(), cfg.CompletionTimeout)
			if err != nil {
				return err
			}

			router, err := dispatch.NewRouter(
				prompts.NewService(cfg.Model),
				ai.NewAiService(client, log),
				error_notificator.NewService(nil, log),
				nil,
				log,
			)
			if err != nil {
				return err
			}

			out, ok := router.Dispatch(cmd.Context(), domain.ParseText(0, strings.Join(args, " ")))
			if !ok {
				return errors.New("message ignored: unknown command")
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")

	return cmd
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aibox/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("aibox: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var a *app

	rootCmd := &cobra.Command{
		Use:           "aibox",
		Short:         "Multi-provider AI chat with a local knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogger(cfg)
			a, err = newApp(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}

	deps := func() *app { return a }
	rootCmd.AddCommand(
		newServeCmd(deps),
		newChatCmd(deps),
		newAskCmd(deps),
		newIngestCmd(deps),
		newSearchCmd(deps),
		newStatsCmd(deps),
		newModelsCmd(deps),
		newLoginCmd(deps),
	)
	return rootCmd
}

package main

import (
	"context"
	"downalert/internal/config"
	"downalert/internal/lib/logger"
	"downalert/internal/lib/sl"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "downalert",
	Short: "Telegram bot that alerts you when your websites are down",
	Long: `downalert keeps a watchlist of websites per Telegram user, checks every
website on a fixed interval and sends its owner an alert when it is down.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger.Setup(os.Stderr, cfg.Environment, cfg.LogLevel)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("downalert failed", sl.Error(err))
		os.Exit(1)
	}
}

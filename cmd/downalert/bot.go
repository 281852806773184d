package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot and deliver alerts from RabbitMQ",
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if a.broker == nil {
		slog.Warn("RABBITMQ_URL is not set, the bot will not deliver alerts")
	}

	bot, err := a.newBot()
	if err != nil {
		return err
	}
	return bot.Start(ctx)
}

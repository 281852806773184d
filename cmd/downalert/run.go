package main

import (
	"downalert/internal/notifier"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot, the scheduler and the HTTP API in one process",
	Long: `Run the Telegram bot and the poll scheduler together. Alerts go through
RabbitMQ when RABBITMQ_URL is set and straight to the bot otherwise. The HTTP
API is started when SERVER_ADDRESS is set.`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	bot, err := a.newBot()
	if err != nil {
		return err
	}
	srv, err := a.newServer()
	if err != nil {
		return err
	}

	var notif notifier.Notifier = bot
	if a.broker != nil {
		notif = a.broker
	}
	sched := a.newScheduler(notif)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Start(ctx)
	})
	g.Go(func() error {
		return sched.Start(ctx)
	})
	if srv != nil {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	return g.Wait()
}

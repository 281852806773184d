package main

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run only the poll scheduler and publish alerts to RabbitMQ",
	RunE:  runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !cfg.RabbitMQ.Enabled() {
		return errors.New("the scheduler publishes alerts to RabbitMQ, set RABBITMQ_URL")
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := a.newServer()
	if err != nil {
		return err
	}
	sched := a.newScheduler(a.broker)

	g, ctx := errgroup.WithContext(ctx)
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

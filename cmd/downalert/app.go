package main

import (
	"context"
	"downalert/internal/broker/rabbitmq"
	"downalert/internal/checker"
	"downalert/internal/config"
	"downalert/internal/db"
	"downalert/internal/lib/setup"
	"downalert/internal/metrics"
	"downalert/internal/notifier"
	"downalert/internal/notifier/telegram"
	"downalert/internal/scheduler"
	"downalert/internal/screens"
	"downalert/internal/server"
	"downalert/internal/service"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg      config.Config
	database db.Database
	broker   *rabbitmq.RabbitMQ
	checker  *checker.Checker
	sites    *service.SitesService
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	database, err := setup.ConnectToDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		database: database,
		checker:  checker.New(cfg.Checker),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewCollector(a.registry)

	admin := service.Admin{Username: cfg.Telegram.AdminUsername, Id: cfg.Telegram.AdminID}
	a.sites = service.NewSitesService(database.SitesRepo(), a.checker, admin, cfg.CommonConfig)

	if cfg.RabbitMQ.Enabled() {
		a.broker, err = setup.ConnectToRabbitMQ(cfg)
		if err != nil {
			database.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) close() {
	if a.broker != nil {
		a.broker.Close()
	}
	a.database.Close()
}

func (a *app) newBot() (*telegram.TGBot, error) {
	if a.cfg.Telegram.BotToken() == "" {
		return nil, errors.New("telegram token is not found, set BOT_TOKEN or BOT_TOKEN_FILE")
	}

	renderer := screens.New(a.cfg.Screens)
	// a nil *RabbitMQ must not reach the bot as a non-nil interface
	if a.broker == nil {
		return telegram.New(nil, a.sites, renderer, a.cfg.Telegram)
	}
	return telegram.New(a.broker, a.sites, renderer, a.cfg.Telegram)
}

func (a *app) newScheduler(notif notifier.Notifier) *scheduler.Scheduler {
	return scheduler.New(a.sites, a.checker, notif, a.metrics, a.cfg.Scheduler)
}

// newServer returns nil when SERVER_ADDRESS is not set.
func (a *app) newServer() (*server.Server, error) {
	if a.cfg.Server.Address == "" {
		slog.Info("http server is disabled since SERVER_ADDRESS is not set")
		return nil, nil
	}
	return server.New(a.sites, a.registry, a.cfg.Server)
}

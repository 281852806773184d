package setup

import (
	"context"
	"downalert/internal/broker/rabbitmq"
	"downalert/internal/config"
	"downalert/internal/db"
	"fmt"
	"log/slog"
)

type DatabaseCreator = func(cfg config.Config) (db.Database, error)

var Drivers = map[string]DatabaseCreator{
	config.DriverPostgres: func(cfg config.Config) (db.Database, error) {
		slog.Info("connecting to PostgreSQL", slog.String("host", cfg.Postgres.Host))
		return db.NewPostgres(cfg.Postgres.URL())
	},
	config.DriverSQLite: func(cfg config.Config) (db.Database, error) {
		slog.Info("connecting to SQLite", slog.String("file", cfg.SQLite.File))
		return db.NewSQLite(cfg.SQLite.File)
	},
}

// ConnectToDatabase opens the configured database and brings its schema up
// to date.
func ConnectToDatabase(ctx context.Context, cfg config.Config) (db.Database, error) {
	creator, exists := Drivers[cfg.DbDriver]
	if !exists {
		return nil, fmt.Errorf("unknown database driver %q", cfg.DbDriver)
	}

	database, err := creator(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func ConnectToRabbitMQ(cfg config.Config) (*rabbitmq.RabbitMQ, error) {
	slog.Info("connecting to RabbitMQ")
	return rabbitmq.New(cfg.RabbitMQ.URL, cfg.BrokerTimeout)
}

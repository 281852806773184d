package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DbDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`

	CommonConfig
	SQLite    SQLiteConfig
	Postgres  PostgresConfig
	RabbitMQ  RabbitMQConfig
	Scheduler SchedulerConfig
	Checker   CheckerConfig
	Telegram  TelegramBotConfig
	Server    ServerConfig
	Screens   ScreensConfig
}

// CommonConfig holds the per-call timeouts shared by every service.
type CommonConfig struct {
	DbQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	BrokerTimeout  time.Duration `env:"BROKER_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DbDriver != DriverSQLite && c.DbDriver != DriverPostgres {
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DbDriver))
	}
	if c.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("SCHEDULER_INTERVAL must be positive"))
	}
	if c.Checker.Timeout <= 0 {
		errs = append(errs, errors.New("CHECKER_TIMEOUT must be positive"))
	}
	if c.Telegram.RatePerSec <= 0 {
		errs = append(errs, errors.New("TELEGRAM_RATE_PER_SEC must be positive"))
	}
	if _, err := c.Server.Creds(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

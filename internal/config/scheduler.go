package config

import "time"

type SchedulerConfig struct {
	Interval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"5m"`
}

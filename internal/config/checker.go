package config

import "time"

type CheckerConfig struct {
	Timeout      time.Duration `env:"CHECKER_TIMEOUT" envDefault:"10s"`
	BlockPrivate bool          `env:"CHECKER_BLOCK_PRIVATE" envDefault:"false"`
	// AllowedPorts only applies when BlockPrivate is set.
	AllowedPorts []int `env:"CHECKER_ALLOWED_PORTS" envDefault:"80,443,8080,8443"`
}

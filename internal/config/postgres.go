package config

import (
	"fmt"
	"strings"
)

type PostgresConfig struct {
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Pass     string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PassFile string `env:"POSTGRES_PASSWORD_FILE,file"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	Db       string `env:"POSTGRES_DB" envDefault:"downalert"`
}

func (c PostgresConfig) URL() string {
	pass := c.Pass
	if c.PassFile != "" {
		pass = strings.TrimSpace(c.PassFile)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, pass, c.Host, c.Port, c.Db)
}

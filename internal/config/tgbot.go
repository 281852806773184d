package config

import "strings"

type TelegramBotConfig struct {
	Token         string  `env:"BOT_TOKEN"`
	TokenFile     string  `env:"BOT_TOKEN_FILE,file"`
	AdminUsername string  `env:"ADMIN_USERNAME"`
	AdminID       int64   `env:"ADMIN_ID"`
	RatePerSec    float64 `env:"TELEGRAM_RATE_PER_SEC" envDefault:"25"`
}

// BotToken prefers the token read from BOT_TOKEN_FILE.
func (c TelegramBotConfig) BotToken() string {
	if token := strings.TrimSpace(c.TokenFile); token != "" {
		return token
	}
	return c.Token
}

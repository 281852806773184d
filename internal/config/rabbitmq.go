package config

type RabbitMQConfig struct {
	// URL is empty when alerts are delivered in-process.
	URL string `env:"RABBITMQ_URL"`
}

func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

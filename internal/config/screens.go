package config

type ScreensConfig struct {
	Renderer string `env:"SCREENS_RENDERER" envDefault:"wkhtmltoimage"`
	MaxWidth int    `env:"SCREENS_MAX_WIDTH" envDefault:"1280"`
}

package config

type SQLiteConfig struct {
	File string `env:"SQLITE_FILE" envDefault:"database.db"`
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App     App
	Woot    Woot
	Bot     Bot
	Storage Storage
	Servers Servers
	Redis   Redis
}

type App struct {
	Name            string        `env:"APP_NAME" envDefault:"woot-deals-bot"`
	Version         string        `env:"APP_VERSION" envDefault:"dev"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"4m"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}

package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath       string     `env:"DB_PATH" envDefault:"data/tunequiz.db"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	HostPassword string     `env:"HOST_PASSWORD" envDefault:"letmein"`
	MediaTempDir string     `env:"MEDIA_TEMP_DIR" envDefault:"/tmp"`
	SongsPerGame int        `env:"SONGS_PER_GAME" envDefault:"15"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

package main

import (
	"log/slog"
	"time"

	"github.com/betterbets/betterbets/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	MetricsPort     uint16        `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	Postgres        config.PostgresConfig
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	DatabaseDSN      string        `env:"DATABASE_URL" envDefault:"replay:replay@tcp(localhost:3306)/replay?charset=utf8mb4&parseTime=True&loc=UTC"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"replay-be"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"production"`
	ShutdownTimeoutS int           `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`
	AlertWebhookURL  string        `env:"ALERT_WEBHOOK_URL"`
	AlertThreshold   int64         `env:"ALERT_THRESHOLD" envDefault:"100"`
	ShutdownTimeout  time.Duration `env:"-"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutS) * time.Second
	return cfg, nil
}

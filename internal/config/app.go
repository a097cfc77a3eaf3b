package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relancebot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"RELANCE_RUNTIME_PATH" envDefault:".relancebot"`

	// Address the webhook server listens on
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Cron expression for the reminder sweep
	ReminderSchedule string `env:"REMINDER_SCHEDULE" envDefault:"0 9 * * *"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "relancebot.db")
}

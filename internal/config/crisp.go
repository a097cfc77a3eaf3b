package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relancebot/pkg/log"
)

type CrispConfig struct {
	BaseURL    string `env:"CRISP_BASE_URL" envDefault:"https://api.crisp.chat/v1"`
	WebsiteID  string `env:"CRISP_WEBSITE_ID,required,notEmpty"`
	Identifier string `env:"CRISP_IDENTIFIER,required,notEmpty"`
	Key        string `env:"CRISP_KEY,required,notEmpty"`
}

func NewCrispConfig(ctx context.Context) *CrispConfig {
	c := &CrispConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Crisp config")
	}
	return c
}

package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relancebot/pkg/log"
)

type OpenAIConfig struct {
	APIKey string `env:"GPT_API_KEY,required,notEmpty"`
	Model  string `env:"GPT_MODEL" envDefault:"gpt-4"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}

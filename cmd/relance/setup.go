package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/relancebot/internal/config"
	"github.com/sandevgo/relancebot/internal/providers/crisp"
	"github.com/sandevgo/relancebot/internal/providers/llm"
	"github.com/sandevgo/relancebot/internal/service/ingest"
	"github.com/sandevgo/relancebot/internal/service/memory"
	"github.com/sandevgo/relancebot/internal/service/reminder"
	"github.com/sandevgo/relancebot/internal/storage/sqlite"
	"github.com/sandevgo/relancebot/internal/transport/webhook"
	"github.com/sandevgo/relancebot/pkg/log"
	"github.com/sandevgo/relancebot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	crispCfg := config.NewCrispConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)

	// Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	customersRepo := sqlite.NewCustomersRepo(db)
	messagesRepo := sqlite.NewMessagesRepo(db)
	memoriesRepo := sqlite.NewMemoriesRepo(db)

	// External capabilities
	summarizer := llm.NewOpenAI(openaiCfg.APIKey, openaiCfg.Model)
	chatClient := crisp.NewClient(crisp.Config{
		BaseURL:    crispCfg.BaseURL,
		WebsiteID:  crispCfg.WebsiteID,
		Identifier: crispCfg.Identifier,
		Key:        crispCfg.Key,
	})

	// Ingestion
	extractor := memory.NewExtractor(memoriesRepo, summarizer)
	pipeline := ingest.NewPipeline(customersRepo, messagesRepo, extractor)

	// Reminder sweep
	engine := reminder.NewEngine(customersRepo, messagesRepo, memoriesRepo, chatClient, summarizer)
	services = append(services, reminder.NewScheduler(engine, appCfg.ReminderSchedule))

	// Transport
	services = append(services, webhook.NewServer(appCfg.HTTPAddr, pipeline))

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

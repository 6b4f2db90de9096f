package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/filinglens/filinglens-backend/internal/db"
	"github.com/filinglens/filinglens-backend/internal/pipeline"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type App struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Cfg     Config
	Repos   Repos
	Clients Clients

	Summarizer *pipeline.Summarizer
	TopLevel   *pipeline.TopLevelSynthesizer
	Reports    *pipeline.ReportSynthesizer
	Runner     *pipeline.Runner
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	source := pipeline.NewStoreChunkSource(reposet.FilingChunks)
	summarizer := pipeline.NewSummarizer(log, clientset.LLM, source, reposet.SectionSummary, cfg.Pipeline)
	topLevel := pipeline.NewTopLevelSynthesizer(log, clientset.LLM, reposet.SectionSummary, reposet.TopLevelSummary, clientset.BriefCache, cfg.Pipeline)
	reports := pipeline.NewReportSynthesizer(log, clientset.LLM, reposet.SectionSummary, reposet.Reports, cfg.Pipeline)
	runner := pipeline.NewRunner(log, reposet.Filings, summarizer, cfg.Pipeline)

	return &App{
		Log:        log,
		DB:         theDB,
		Cfg:        cfg,
		Repos:      reposet,
		Clients:    clientset,
		Summarizer: summarizer,
		TopLevel:   topLevel,
		Reports:    reports,
		Runner:     runner,
	}, nil
}

func (a *App) Close() {
	if a.Clients.BriefCache != nil {
		_ = a.Clients.BriefCache.Close()
	}
	a.Log.Sync()
}

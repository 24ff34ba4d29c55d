package app

import (
	"context"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/analyzer"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/cache"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/config"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/executor"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/history"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/learning"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/metrics"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/routing"
	"github.com/switchboard-sh/switchboard/internal/pkg/logger"
	"github.com/switchboard-sh/switchboard/internal/ports"
	"github.com/switchboard-sh/switchboard/internal/services"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Orchestrator   *services.Orchestrator
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Config         domain.Config
	CacheStore     ports.CacheStore
	HistoryStore   *history.SQLiteStore
	Learning       *learning.Tracker
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph. History and learning are
// best-effort: a store that fails to open is logged and left out rather than
// blocking the run.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	var cacheOpts []cache.Option
	if cfg.Cache.MaxEntries > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxEntries(cfg.Cache.MaxEntries))
	}
	cacheStore := cache.NewMemoryCache(cacheOpts...)
	collector := metrics.NewCollector(cfg.Metrics)

	var outcomes ports.OutcomeRepository
	historyStore, err := history.NewSQLiteStore()
	if err != nil {
		log.Warn("history store unavailable", map[string]interface{}{"error": err.Error()})
		historyStore = nil
	} else {
		outcomes = historyStore
	}

	var learner ports.LearningRecorder
	var tracker *learning.Tracker
	if cfg.Learning.Enabled {
		tracker, err = learning.NewTracker(cfg.Learning.MemoryDir)
		if err != nil {
			log.Warn("learning tracker unavailable", map[string]interface{}{"error": err.Error()})
			tracker = nil
		} else {
			learner = tracker
		}
	}

	runner := executor.NewLocalRunner()
	lightweight := executor.NewLightweight(cfg.Execution.LightweightCommand, runner, log)
	reasoning := executor.NewReasoning(executor.NewCommandClient(cfg.Execution.ReasoningCommand, runner))
	hybrid := executor.NewHybrid(lightweight, reasoning, log)

	orchestrator := services.NewOrchestrator(services.Deps{
		Analyzer: analyzer.New(),
		Policy:   routing.NewPolicy(cfg.Routing),
		Cache:    cacheStore,
		Metrics:  collector,
		Retry:    executor.NewController(cfg.Execution, log),
		Executors: map[domain.Strategy]ports.Executor{
			domain.StrategyLightweight: lightweight,
			domain.StrategyReasoning:   reasoning,
			domain.StrategyHybrid:      hybrid,
		},
		History:      outcomes,
		Learning:     learner,
		Logger:       log,
		CacheEnabled: cfg.Cache.Enabled,
		Timeout:      time.Duration(cfg.Execution.TimeoutSeconds) * time.Second,
	})

	return &Container{
		Orchestrator:   orchestrator,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Config:         cfg,
		CacheStore:     cacheStore,
		HistoryStore:   historyStore,
		Learning:       tracker,
		Logger:         log,
	}, nil
}

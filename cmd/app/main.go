// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-video-writer/internal/config"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/domain/ports/repository"
	aiAdapters "ai-video-writer/internal/infra/adapters/ai"
	pubAdapters "ai-video-writer/internal/infra/adapters/publisher"
	videoAdapters "ai-video-writer/internal/infra/adapters/video"
	"ai-video-writer/internal/infra/cache"
	"ai-video-writer/internal/infra/jobs"
	"ai-video-writer/internal/infra/logging"
	"ai-video-writer/internal/infra/metrics"
	"ai-video-writer/internal/infra/quota"
	red "ai-video-writer/internal/infra/redis"
	"ai-video-writer/internal/infra/web"
	"ai-video-writer/internal/infra/worker"
	"ai-video-writer/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (synthetic providers)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Shared stores (explicit, injected; no ambient globals) ----
	ledger := quota.NewLedger()
	results := cache.NewResultCache(cfg.Cache.TTL)
	registry := jobs.NewRegistry(cfg.Jobs.Retention, logger)
	go results.StartSweeper(ctx, cfg.Cache.SweepInterval)
	go registry.StartSweeper(ctx, time.Minute)

	// ---- Worker pool + executor ----
	pool := worker.NewPool(cfg.Jobs.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()
	executor := jobs.NewExecutor(registry, pool, logger)

	// ---- Redis catalog cache (optional) ----
	var catalog repository.CatalogCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		catalog = red.NewCatalogCache(redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; durable catalog cache disabled")
	}

	// ---- Provider adapters ----
	var data adapter.VideoDataAdapter
	var analytics adapter.AnalyticsAdapter
	if cfg.Runtime.Dev {
		fake := videoAdapters.NewFakeAdapter(0)
		data, analytics = fake, fake
		logger.Info().Msg("video adapters: synthetic (dev)")
	} else {
		data, err = videoAdapters.NewDataAdapter(cfg.Provider.APIKey, cfg.Provider.DataBaseURL, cfg.Provider.Timeout)
		if err != nil {
			log.Fatalf("video data adapter: %v", err)
		}
		analytics, err = videoAdapters.NewAnalyticsAdapter(cfg.Provider.APIKey, cfg.Provider.AnalyticsBaseURL, cfg.Provider.Timeout)
		if err != nil {
			log.Fatalf("analytics adapter: %v", err)
		}
	}

	// ---- AI adapter (Gemini -> OpenAI -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Info().Msg("AI adapter: noop (dev)")
	default:
		log.Fatalf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	discoveryUC := usecase.NewDiscoveryUseCase(data, catalog, ledger, usecase.DiscoveryOptions{
		PageSize:       cfg.Provider.PageSize,
		MaxListPages:   cfg.Provider.MaxListPages,
		MaxSearchPages: cfg.Provider.MaxSearchPages,
	}, logger)
	aggregator := usecase.NewChunkedAggregator(analytics, ledger, cfg.Provider.ChunkSize, logger)
	reportUC := usecase.NewReportUseCase(discoveryUC, aggregator, results, logger)
	publisher := pubAdapters.NewNoopPublisher(logger)
	articleUC := usecase.NewArticleUseCase(data, ai, publisher, ledger, cfg.AI.DefaultModel, cfg.AI.MaxPromptTokens, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, cfg.Server.SessionTTL)
	srv := web.NewServer(reportUC, articleUC, registry, executor, ledger, auth, cfg.Server.APISecret, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	_ = server.Shutdown(shutCtx)
	cancel()
}

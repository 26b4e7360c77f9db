package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/config"
	"github.com/pustaka-digital/pustaka/internal/db"
	dbRedis "github.com/pustaka-digital/pustaka/internal/db/redis"
	"github.com/pustaka-digital/pustaka/internal/domain"
	logpkg "github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/internal/metrics"
	catalogrepo "github.com/pustaka-digital/pustaka/internal/repository/catalog"
	descriptionrepo "github.com/pustaka-digital/pustaka/internal/repository/description"
	playlistrepo "github.com/pustaka-digital/pustaka/internal/repository/playlist"
	quotarepo "github.com/pustaka-digital/pustaka/internal/repository/quota"
	"github.com/pustaka-digital/pustaka/internal/repository/respcache"
	anthropicCompletion "github.com/pustaka-digital/pustaka/internal/transport/anthropic"
	chiTransport "github.com/pustaka-digital/pustaka/internal/transport/chi"
	openaiCompletion "github.com/pustaka-digital/pustaka/internal/transport/openai"
	batchuc "github.com/pustaka-digital/pustaka/internal/usecase/batch"
	chatuc "github.com/pustaka-digital/pustaka/internal/usecase/chat"
	completionuc "github.com/pustaka-digital/pustaka/internal/usecase/completion"
	descriptionuc "github.com/pustaka-digital/pustaka/internal/usecase/description"
	healthuc "github.com/pustaka-digital/pustaka/internal/usecase/health"
	playlistuc "github.com/pustaka-digital/pustaka/internal/usecase/playlist"
	"github.com/pustaka-digital/pustaka/internal/usecase/recovery"
	searchuc "github.com/pustaka-digital/pustaka/internal/usecase/search"
	usageuc "github.com/pustaka-digital/pustaka/internal/usecase/usage"
	"github.com/pustaka-digital/pustaka/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pustaka API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("completion_provider", cfg.Completion.Provider),
		zap.String("completion_model", cfg.Completion.Model),
	)

	// Redis and Valkey speak the same RESP commands; one store serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterCompletionMetrics()

	provider := buildProvider(cfg.Completion, logger)
	gateway := buildGateway(ctx, cfg.Completion, provider, store, logger)

	catalog := catalogrepo.New(store)
	playlists := playlistrepo.New(store)
	descriptions := descriptionrepo.New(store)

	genOpts := domain.CompletionOptions{
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}

	searchSvc := searchuc.New(catalog, logger)
	chatSvc := chatuc.New(searchSvc, catalog, gateway, chatuc.Config{
		LibraryName:     cfg.Chat.LibraryName,
		ContactWhatsApp: cfg.Chat.ContactWhatsApp,
		LibraryContext:  cfg.Chat.LibraryContext,
		HistoryTurns:    cfg.Chat.HistoryTurns,
		MaxTokens:       cfg.Completion.MaxTokens,
		Temperature:     cfg.Completion.Temperature,
	}, logger)
	descriptionSvc := descriptionuc.New(descriptions, catalog, recovery.NewGenerator(gateway, genOpts, logger), logger)
	runner := batchuc.NewRunner(time.Duration(cfg.Generation.BatchDelayMs)*time.Millisecond, logger)
	playlistSvc := playlistuc.New(playlists, gateway, runner, genOpts, logger)
	usageSvc := usageuc.New(gateway, cfg.Completion.Provider, cfg.Completion.Model)
	healthSvc := healthuc.New(store, provider)

	server := chiTransport.NewServer(chatSvc, searchSvc, descriptionSvc, playlistSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// completionProvider is a domain.Completer that can also report its health.
type completionProvider interface {
	domain.Completer
	domain.HealthChecker
}

func buildProvider(cfg config.CompletionConfig, logger *zap.Logger) completionProvider {
	if cfg.Provider == "anthropic" {
		return anthropicCompletion.NewCompleter(&anthropicCompletion.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Logger:  logger,
		})
	}
	return openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Logger:   logger,
	})
}

// buildGateway assembles quota tracking, the in-process cache and, when
// enabled, the store-backed shared cache around provider.
func buildGateway(
	ctx context.Context,
	cfg config.CompletionConfig,
	provider domain.Completer,
	store db.Store,
	logger *zap.Logger,
) *completionuc.Gateway {
	window := time.Duration(cfg.Quota.WindowMin) * time.Minute
	quota := completionuc.NewQuotaTracker(cfg.Provider, cfg.Quota.MaxRequests, window, logger)
	if cfg.Quota.Persist {
		// Counters outlive the window so a restart at its end still sees them.
		quota.WithStore(ctx, quotarepo.New(store, 2*window))
	}

	cacheTTL := time.Duration(cfg.CacheTTLSec) * time.Second
	gateway := completionuc.NewGateway(provider, quota, completionuc.Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		CacheTTL: cacheTTL,
		Defaults: domain.CompletionOptions{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
	}, logger)
	if cfg.SharedCache {
		gateway.WithSharedCache(respcache.New(store, cacheTTL, logger))
	}
	return gateway
}

package pustaka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pustaka-digital/pustaka/internal/db"
	dbRedis "github.com/pustaka-digital/pustaka/internal/db/redis"
	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
	catalogrepo "github.com/pustaka-digital/pustaka/internal/repository/catalog"
	descriptionrepo "github.com/pustaka-digital/pustaka/internal/repository/description"
	playlistrepo "github.com/pustaka-digital/pustaka/internal/repository/playlist"
	quotarepo "github.com/pustaka-digital/pustaka/internal/repository/quota"
	"github.com/pustaka-digital/pustaka/internal/repository/respcache"
	anthropicCompletion "github.com/pustaka-digital/pustaka/internal/transport/anthropic"
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
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type chatUseCase interface {
	Respond(ctx context.Context, message string, history []domchat.Turn) domchat.Response
}

type searchUseCase interface {
	Search(ctx context.Context, term string) searchuc.Result
}

type describeUseCase interface {
	Describe(ctx context.Context, req descriptionuc.Request) (metadata.BookDescription, descriptionuc.Source, error)
}

type playlistUseCase interface {
	Generate(ctx context.Context, req playlistuc.Request) (playlistuc.Summary, error)
}

type bookWriter interface {
	Put(ctx context.Context, books []book.Book) error
}

type playlistWriter interface {
	Put(ctx context.Context, playlists []domplaylist.Playlist) error
}

// Client is the pustaka entry point.
type Client struct {
	store       db.Store
	chatSvc     chatUseCase
	searchSvc   searchUseCase
	describeSvc describeUseCase
	playlistSvc playlistUseCase
	books       bookWriter
	playlists   playlistWriter
	healthSvc   healthUseCase
	usageSvc    usageUseCase
	obs         *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check and for
// loading a persisted quota counter.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	cfg.applyDefaults()

	if len(cfg.addrs) == 0 {
		return nil, errors.New("pustaka: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("pustaka: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs), nil
}

// createStore connects to Redis or Valkey. Both speak the same commands.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("pustaka: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("pustaka: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.logger
	provider := newProvider(cfg)

	quota := completionuc.NewQuotaTracker(cfg.provider, cfg.quotaMax, cfg.quotaWindow, logger)
	if cfg.persistQuota {
		quota.WithStore(ctx, quotarepo.New(store, 2*cfg.quotaWindow))
	}
	gateway := completionuc.NewGateway(provider, quota, completionuc.Config{
		Provider: cfg.provider,
		Model:    cfg.model,
		Timeout:  cfg.timeout,
		CacheTTL: cfg.cacheTTL,
	}, logger)
	if cfg.sharedCache {
		gateway.WithSharedCache(respcache.New(store, cfg.cacheTTL, logger))
	}

	catalog := catalogrepo.New(store)
	playlists := playlistrepo.New(store)
	genOpts := domain.CompletionOptions{MaxTokens: cfg.genMaxTokens, Temperature: cfg.genTemperature}

	searchSvc := searchuc.New(catalog, logger)
	chatSvc := chatuc.New(searchSvc, catalog, gateway, chatuc.Config{
		LibraryName:     cfg.library.Name,
		ContactWhatsApp: cfg.library.WhatsApp,
		LibraryContext:  cfg.library.Context,
	}, logger)
	describeSvc := descriptionuc.New(descriptionrepo.New(store), catalog,
		recovery.NewGenerator(gateway, genOpts, logger), logger)
	playlistSvc := playlistuc.New(playlists, gateway,
		batchuc.NewRunner(cfg.batchDelay, logger), genOpts, logger)

	var checker healthuc.CompletionChecker
	if hc, ok := provider.(domain.HealthChecker); ok {
		checker = hc
	}

	return &Client{
		store:       store,
		chatSvc:     chatSvc,
		searchSvc:   searchSvc,
		describeSvc: describeSvc,
		playlistSvc: playlistSvc,
		books:       catalog,
		playlists:   playlists,
		healthSvc:   healthuc.New(store, checker),
		usageSvc:    usageuc.New(gateway, cfg.provider, cfg.model),
		obs:         obs,
	}
}

func newProvider(cfg *clientConfig) domain.Completer {
	switch cfg.provider {
	case "openai":
		return openaiCompletion.NewCompleter(&openaiCompletion.Config{
			APIKey:   cfg.apiKey,
			BaseURL:  cfg.baseURL,
			Model:    cfg.model,
			Provider: cfg.provider,
			Logger:   cfg.logger,
		})
	case "anthropic":
		return anthropicCompletion.NewCompleter(&anthropicCompletion.Config{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseURL,
			Model:   cfg.model,
			Logger:  cfg.logger,
		})
	default:
		return noopCompleter{}
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// noopCompleter fails every call, so the gateway always takes the fallback.
type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, string, domain.CompletionOptions) (domain.CompletionResult, error) {
	return domain.CompletionResult{}, fmt.Errorf("completion not configured: %w", domain.ErrProviderError)
}

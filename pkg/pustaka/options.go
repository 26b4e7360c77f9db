package pustaka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	provider string
	apiKey   string
	baseURL  string
	model    string

	quotaMax     int64
	quotaWindow  time.Duration
	persistQuota bool
	cacheTTL     time.Duration
	sharedCache  bool
	timeout      time.Duration
	batchDelay   time.Duration

	genMaxTokens   int
	genTemperature *float32

	library Library

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// Library describes the library the chat assistant speaks for.
type Library struct {
	Name     string
	WhatsApp string
	Context  string // opening hours, loan rules and the like
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCompletion sets the text completion provider: "openai" for any
// OpenAI-compatible endpoint, or "anthropic". baseURL may be empty.
func WithCompletion(provider, apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = provider
		c.apiKey = apiKey
		c.baseURL = baseURL
		c.model = model
	})
}

// WithQuota bounds provider calls per window. Defaults: 60 per hour. A
// maxRequests of -1 removes the bound.
// persist mirrors the counter to the store so other processes sharing it
// start from the same count.
func WithQuota(maxRequests int64, window time.Duration, persist bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.quotaMax = maxRequests
		c.quotaWindow = window
		c.persistQuota = persist
	})
}

// WithCacheTTL sets how long identical prompts are answered from cache. Default: 5m.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithSharedCache also caches responses in the store, so processes sharing
// it reuse each other's answers.
func WithSharedCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.sharedCache = true
	})
}

// WithTimeout bounds each provider call. Default: 20s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithBatchDelay sets the spacing between provider calls in playlist batches.
// Default: 900ms.
func WithBatchDelay(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchDelay = d
	})
}

// WithGeneration sets the completion options for description and playlist
// generation. Defaults: 2048 tokens at temperature 0.4.
func WithGeneration(maxTokens int, temperature float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.genMaxTokens = maxTokens
		c.genTemperature = &temperature
	})
}

// WithLibrary sets the library identity used in chat replies.
func WithLibrary(name, whatsapp, about string) Option {
	return optionFunc(func(c *clientConfig) {
		c.library = Library{Name: name, WhatsApp: whatsapp, Context: about}
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

func (c *clientConfig) applyDefaults() {
	if c.quotaMax == 0 {
		c.quotaMax = 60
	}
	if c.quotaWindow <= 0 {
		c.quotaWindow = time.Hour
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = 5 * time.Minute
	}
	if c.timeout <= 0 {
		c.timeout = 20 * time.Second
	}
	if c.batchDelay <= 0 {
		c.batchDelay = 900 * time.Millisecond
	}
	if c.genMaxTokens <= 0 {
		c.genMaxTokens = 2048
	}
	if c.genTemperature == nil {
		c.genTemperature = domain.Temperature(0.4)
	}
	if c.library.Name == "" {
		c.library.Name = "Perpustakaan"
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
}

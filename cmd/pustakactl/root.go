package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/config"
	logpkg "github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/pkg/pustaka"
)

// operations is the part of the client the commands drive.
type operations interface {
	ImportBooks(ctx context.Context, books []pustaka.Book) error
	ImportPlaylists(ctx context.Context, playlists []pustaka.Playlist) error
	GeneratePlaylists(ctx context.Context, req pustaka.GenerateRequest) (pustaka.GenerateSummary, error)
	DescribeBook(ctx context.Context, req pustaka.DescribeRequest) (pustaka.Description, error)
	Usage(ctx context.Context) pustaka.UsageReport
	Health(ctx context.Context) pustaka.HealthStatus
	Close()
}

// openFunc connects to the deployment described by config/{env}.yaml.
type openFunc func(ctx context.Context, env string) (operations, error)

func newRootCmd(open openFunc) *cobra.Command {
	var (
		env     string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "pustakactl",
		Short:         "Administer the pustaka library assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&env, "env", "e", config.GetEnv(), "config environment (local, prod)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "overall command timeout")

	connect := func(cmd *cobra.Command) (context.Context, operations, func(), error) {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		c, err := open(ctx, env)
		if err != nil {
			cancel()
			return nil, nil, nil, fmt.Errorf("connect: %w", err)
		}
		return ctx, c, func() { c.Close(); cancel() }, nil
	}

	root.AddCommand(
		newSeedCmd(connect),
		newBooksCmd(connect),
		newPlaylistsCmd(connect),
		newUsageCmd(connect),
		newHealthCmd(connect),
	)
	return root
}

// connectFunc opens a client bounded by --timeout. The returned func closes
// the client and releases the context.
type connectFunc func(cmd *cobra.Command) (context.Context, operations, func(), error)

// openClient builds a pustaka client from the service configuration.
func openClient(ctx context.Context, env string) (operations, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	opts := []pustaka.Option{
		pustaka.WithCompletion(cfg.Completion.Provider, cfg.Completion.APIKey, cfg.Completion.BaseURL, cfg.Completion.Model),
		pustaka.WithQuota(cfg.Completion.Quota.MaxRequests,
			time.Duration(cfg.Completion.Quota.WindowMin)*time.Minute, cfg.Completion.Quota.Persist),
		pustaka.WithCacheTTL(time.Duration(cfg.Completion.CacheTTLSec) * time.Second),
		pustaka.WithTimeout(time.Duration(cfg.Completion.TimeoutSec) * time.Second),
		pustaka.WithBatchDelay(time.Duration(cfg.Generation.BatchDelayMs) * time.Millisecond),
		pustaka.WithGeneration(cfg.Generation.MaxTokens, *cfg.Generation.Temperature),
		pustaka.WithLibrary(cfg.Chat.LibraryName, cfg.Chat.ContactWhatsApp, cfg.Chat.LibraryContext),
		pustaka.WithLogger(logger.With(zap.String("component", "pustakactl"))),
	}
	addr := cfg.Database.Addrs[0]
	if cfg.Database.Driver == "valkey" {
		opts = append(opts, pustaka.WithValkey(addr, cfg.Database.Password))
	} else {
		opts = append(opts, pustaka.WithRedis(addr, cfg.Database.Password))
	}

	c, err := pustaka.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

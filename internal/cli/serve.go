package cli

import (
	"context"
	"net"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

const limiterPruneInterval = time.Minute

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := SignalContext(cmd.Context())
			defer stop()
			return a.serve(ctx)
		},
	}
}

// runtime is the wired server with its background jobs.
type runtime struct {
	backend *backend.BackendResult
	server  *apphttp.Server
	caches  *cache.Manager
	service *services.TransactionService
}

func (a *app) newRuntime(ctx context.Context) (*runtime, error) {
	b, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := a.openRegistry(ctx, b)
	if err != nil {
		closeBackend(b, a.logger)
		return nil, err
	}

	statsCache := cache.NewLRUCache[any](a.cfg.StatsCacheSize, a.cfg.StatsCacheTTL)
	caches := cache.NewManager(a.logger)
	caches.Register(statsCache)

	svc := services.NewTransactionService(b.Transactions,
		services.WithCache(statsCache),
		services.WithLocation(a.cfg.Location()),
		services.WithLogger(a.logger),
	)

	srv := apphttp.NewServer(net.JoinHostPort("", a.cfg.Port), svc, reg, apphttp.Options{
		Logger:             a.logger,
		Ready:              b.Ready,
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
	})

	return &runtime{backend: b, server: srv, caches: caches, service: svc}, nil
}

func (a *app) serve(ctx context.Context) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeBackend(rt.backend, a.logger)

	a.logger.Info("Starting fintrack",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, a.cfg.DataBackend,
		"port", a.cfg.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rt.server.Run(gctx, a.cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		return rt.caches.Run(gctx, a.cfg.CacheCleanupInterval)
	})
	if limiter := rt.server.Limiter(); limiter != nil {
		g.Go(func() error {
			return limiter.Run(gctx, limiterPruneInterval)
		})
	}

	err = g.Wait()
	a.logger.Info("fintrack stopped", log.FieldOperation, log.OpShutdown)
	return err
}

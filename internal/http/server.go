package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/stats"
)

// TransactionService is what the API needs from the service layer.
type TransactionService interface {
	Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error)
	Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (core.Transaction, error)
	List(ctx context.Context) ([]core.Transaction, error)

	Home(ctx context.Context) (stats.HomeView, error)
	Transactions(ctx context.Context) (stats.TransactionsView, error)
	Dashboard(ctx context.Context) (stats.Summary, error)
}

type CategoryRegistry interface {
	List() []string
	Custom() []string
	Add(ctx context.Context, name string) (bool, error)
	Remove(ctx context.Context, name string) (bool, error)
}

type Options struct {
	Logger *log.Logger
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error
	// RateLimitPerMinute limits write requests per client, 0 disables.
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	transactions TransactionService
	categories   CategoryRegistry
	ready        func(ctx context.Context) error

	logger   *log.Logger
	events   *log.StructuredLogger
	tracer   *trace.Middleware
	detector *security.Detector
	limiter  *ratelimit.Limiter
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, txs TransactionService, cats CategoryRegistry, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		transactions: txs,
		categories:   cats,
		ready:        opts.Ready,
		logger:       logger,
		events:       log.NewStructuredLogger(logger),
		detector:     security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.Get("/transactions/{id}", s.handleGetTransaction)

		r.Get("/stats/home", s.handleHomeStats)
		r.Get("/stats/transactions", s.handleTransactionsStats)
		r.Get("/stats/dashboard", s.handleDashboardStats)

		r.Get("/categories", s.handleListCategories)

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
					ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
				}))
			}
			r.Post("/transactions", s.handleCreateTransaction)
			r.Patch("/transactions/{id}", s.handlePatchTransaction)
			r.Put("/transactions/{id}", s.handlePutTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)

			r.Post("/categories", s.handleAddCategory)
			r.Delete("/categories/{name}", s.handleRemoveCategory)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Limiter returns the write rate limiter, nil when disabled.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

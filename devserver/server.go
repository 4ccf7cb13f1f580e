// Package devserver provides the develop-mode loop: a file watcher that
// triggers debounced rebuilds and a local HTTP server exposing build status.
//
// # Endpoints
//
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/status - Consolidated status (build state, live activities, next metrics push)
//   - GET /api/logs - Captured per-stage logs of the current build
//   - GET /metrics - Prometheus scrape endpoint
//
// # Architecture
//
// The server itself holds no build state. The rebuild loop lives in a
// Rebuilder, live activity statuses come from the renderer's board, and
// per-stage logs from the logging collector. The server only reads.
//
// # Example
//
//	srv := devserver.New(devserver.Options{
//		Addr:      ":8787",
//		Board:     board,
//		Collector: collector,
//		Metrics:   registry.Handler(),
//		Status:    rebuilder,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package devserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultListenAddr      = ":8787"
)

// Server is the develop-mode HTTP server.
type Server struct {
	addr       string
	logger     *slog.Logger
	httpServer *http.Server
	status     *statusHandler
	logs       *logsHandler
	metrics    http.Handler
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Defaults to ":8787".
	Addr string

	// Logger receives server diagnostics.
	Logger *slog.Logger

	// Board supplies live activity statuses for /api/status.
	Board StatusBoard

	// Collector supplies captured stage logs for /api/logs.
	Collector LogSource

	// Metrics serves /metrics. Usually metrics.ScrapeRegistry.Handler().
	Metrics http.Handler

	// Status supplies the build state and next push time.
	Status StatusProvider
}

// New creates a develop server.
func New(opts Options) *Server {
	addr := opts.Addr
	if addr == "" {
		addr = defaultListenAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:    addr,
		logger:  logger,
		status:  &statusHandler{board: opts.Board, provider: opts.Status},
		logs:    &logsHandler{source: opts.Collector},
		metrics: opts.Metrics,
	}
}

// Handler returns the route table. Exposed so tests can exercise routes
// without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /api/status", s.status)
	mux.Handle("GET /api/logs", s.logs)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("develop server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down develop server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

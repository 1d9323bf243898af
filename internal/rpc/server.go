// Package rpc exposes the asset operations as a local HTTP JSON API, one
// request/response pair per operation. Failures are reported as
// {"error": message}; the open-location call answers {"success": true}.
package rpc

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/MrSnakeDoc/artcrate/internal/models"
)

const (
	metricsPath     = "/metrics"
	shutdownTimeout = 10 * time.Second
)

// AssetService is the set of operations served over HTTP.
type AssetService interface {
	FetchAssets(ctx context.Context, forceRefresh bool) ([]models.Asset, error)
	CacheInfo(ctx context.Context) models.CacheInfo
	ClearAndRefetch(ctx context.Context) ([]models.Asset, error)
	OpenCacheLocation(ctx context.Context) error
}

type Options struct {
	Metrics metrics.Recorder
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

type Server struct {
	svc    AssetService
	opts   Options
	router chi.Router
}

func New(svc AssetService, opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	s := &Server{svc: svc, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(recoverer)
	r.Use(requestLog)
	r.Use(instrument(s.opts.Metrics))

	r.Get("/healthz", health)
	if s.opts.MetricsHandler != nil {
		r.Method(http.MethodGet, metricsPath, s.opts.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/assets", s.getAssets)
		r.Get("/assets/search", s.searchAssets)
		r.Get("/assets/facets", s.getFacets)
		r.Get("/cache", s.getCacheInfo)
		r.Post("/cache/refetch", s.refetch)
		r.Post("/cache/open", s.openCache)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

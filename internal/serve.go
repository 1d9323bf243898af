package internal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/MrSnakeDoc/artcrate/internal/errs"
	"github.com/MrSnakeDoc/artcrate/internal/fetcher"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"
	"github.com/MrSnakeDoc/artcrate/internal/rpc"
	"github.com/MrSnakeDoc/artcrate/internal/scheduler"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
	"github.com/MrSnakeDoc/artcrate/internal/version"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog operations over a local HTTP JSON API",
		Long: `Starts a local HTTP server that a UI process can call:

  GET  /v1/assets           current catalog
  GET  /v1/assets/search    filtered, paged catalog (?q=&type=&pack=&tag=&page=&per_page=)
  GET  /v1/assets/facets    distinct types and packs
  GET  /v1/cache            cache status
  POST /v1/cache/refetch    clear the cache and download again
  POST /v1/cache/open       open the cache directory
  GET  /metrics             Prometheus metrics

With --refresh-every the catalog is also refreshed in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			addr := cfg.Serve.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			every := cfg.Serve.RefreshEvery
			if cmd.Flags().Changed("refresh-every") {
				every, _ = cmd.Flags().GetString("refresh-every")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, addr, every)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:7777)")
	cmd.Flags().String("refresh-every", "", `Background refresh schedule, e.g. "@every 1h" (empty disables)`)
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, addr, every string) error {
	prom := metrics.NewPrometheus()

	coord, err := fetcher.FromConfig(cfg, prom)
	if err != nil {
		return err
	}
	defer utils.Close(coord)

	sched, err := scheduler.Start(ctx, every, coord)
	if err != nil {
		logger.Debug("%v", err)
		return middleware.FlagComboError(errs.RefreshScheduleBad, every)
	}
	defer sched.Stop()

	srv := rpc.New(coord, rpc.Options{
		Metrics:        prom,
		MetricsHandler: promhttp.HandlerFor(prom.Registry, promhttp.HandlerOpts{}),
	})

	logger.Info("%s serving %s (cache: %s)", version.UserAgent(), cfg.FeedURL, coord.CacheLocation())
	return srv.ListenAndServe(ctx, addr)
}

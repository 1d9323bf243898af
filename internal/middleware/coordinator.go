package middleware

import (
	"context"
	"io"
	"sync"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/MrSnakeDoc/artcrate/internal/fetcher"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	closersMu sync.Mutex
	closers   []io.Closer
)

// OpenCoordinator builds the fetch coordinator from the loaded config and
// stores it under CtxKeyCoordinator. Must run after LoadConfig. The store is
// released by Cleanup.
func OpenCoordinator(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	coord, err := fetcher.FromConfig(cfg, metrics.Nop{})
	if err != nil {
		return err
	}
	track(coord)

	ctx := context.WithValue(cmd.Context(), CtxKeyCoordinator, coord)
	cmd.SetContext(ctx)

	return next(cmd, args)
}

func track(c io.Closer) {
	closersMu.Lock()
	defer closersMu.Unlock()
	closers = append(closers, c)
}

// Cleanup closes everything opened by the middlewares, newest first.
func Cleanup() {
	closersMu.Lock()
	defer closersMu.Unlock()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Debug("cleanup: %v", err)
		}
	}
	closers = nil
}

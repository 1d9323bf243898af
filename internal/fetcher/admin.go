package fetcher

import (
	"context"

	"github.com/MrSnakeDoc/artcrate/internal/desktop"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/store"
)

// CacheInfo describes the cached record. Missing and unreadable caches both
// report Exists=false.
func (c *Coordinator) CacheInfo(ctx context.Context) models.CacheInfo {
	d, err := store.LoadCachedData(ctx, c.store)
	if err != nil {
		logger.Debug("cache info: %v", err)
		return models.NewCacheInfo(nil)
	}
	return models.NewCacheInfo(d)
}

// ClearAndRefetch drops the cached record and downloads the feed again.
// A failed delete is logged; the refetch still happens.
func (c *Coordinator) ClearAndRefetch(ctx context.Context) ([]models.Asset, error) {
	logger.Debug("deleting cached data")
	if err := store.DeleteCachedData(ctx, c.store); err != nil {
		logger.LogError("error deleting cache: %v", err)
	}
	return c.FetchAssets(ctx, true)
}

// CacheLocation is the directory backing the store.
func (c *Coordinator) CacheLocation() string {
	return c.store.Path()
}

// OpenCacheLocation shows the cache directory in the desktop file browser.
func (c *Coordinator) OpenCacheLocation(ctx context.Context) error {
	path := c.CacheLocation()
	logger.Debug("opening cache directory %s", path)
	return desktop.OpenPath(ctx, c.opts.Runner, path)
}

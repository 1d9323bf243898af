// Package fetcher decides, per request, whether the asset catalog comes from
// the local cache, a conditional check, or a full download, and coalesces
// concurrent callers onto one in-flight sequence.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/runner"
	"github.com/MrSnakeDoc/artcrate/internal/service"
	"github.com/MrSnakeDoc/artcrate/internal/store"
	"github.com/MrSnakeDoc/artcrate/internal/tsv"

	"golang.org/x/sync/singleflight"
)

const fetchKey = "fetch"

// SheetFetcher is the network capability used by the coordinator.
type SheetFetcher interface {
	Head(ctx context.Context, url string, v service.Validators) (service.FetchResult, error)
	Get(ctx context.Context, url string, v service.Validators, maxBytes int64) (service.FetchResult, error)
}

// FetchError is returned when the network failed and no cached copy exists.
type FetchError struct{ Err error }

func (e *FetchError) Error() string { return fmt.Sprintf("failed to fetch asset data: %v", e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

type Options struct {
	URL      string
	Expiry   time.Duration
	MaxBytes int64
	Metrics  metrics.Recorder
	Runner   runner.CommandRunner
	Now      func() time.Time
}

// Coordinator owns the store handle and the in-flight slot. Build one per
// process and share it; it is safe for concurrent use.
type Coordinator struct {
	store  store.Store
	client SheetFetcher
	opts   Options
	group  singleflight.Group

	// seq is held by the running sequence; a forced call that detached
	// from the group waits here for the previous one to finish.
	seq sync.Mutex
}

func New(st store.Store, client SheetFetcher, opts Options) *Coordinator {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.Runner == nil {
		opts.Runner = runner.ExecRunner{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{store: st, client: client, opts: opts}
}

// FetchAssets returns the current catalog. Non-forced callers that arrive
// while a sequence is running share its result. A forced call always starts
// a new sequence, which later non-forced callers then join; it begins once
// the running one has finished, so only one sequence is ever active. It is
// detached from ctx cancellation. The returned slice is shared between
// coalesced callers and must not be modified.
func (c *Coordinator) FetchAssets(ctx context.Context, forceRefresh bool) ([]models.Asset, error) {
	if forceRefresh {
		c.group.Forget(fetchKey)
	}

	seqCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(fetchKey, func() (interface{}, error) {
		c.seq.Lock()
		defer c.seq.Unlock()
		return c.fetch(seqCtx, forceRefresh)
	})
	if shared {
		logger.Debug("fetch result shared with concurrent callers")
	}
	if err != nil {
		return nil, err
	}
	return v.([]models.Asset), nil
}

func (c *Coordinator) fetch(ctx context.Context, forceRefresh bool) ([]models.Asset, error) {
	start := c.opts.Now()
	logger.Debug("fetch: forceRefresh=%t url=%s", forceRefresh, c.opts.URL)

	// Kept as the fallback even when a forced refresh skips validation.
	cached := c.loadCache(ctx)

	var current *models.CachedData
	if !forceRefresh {
		current = cached
	}

	validators := service.Validators{}
	if current != nil {
		// A young cache is returned without asking the host.
		age := start.Sub(time.UnixMilli(current.Timestamp))
		if age < c.opts.Expiry {
			logger.Debug("fetch: cache is fresh (age=%s < %s)", age.Truncate(time.Second), c.opts.Expiry)
			c.record(metrics.OutcomeFresh, start)
			return current.Assets, nil
		}

		validators = service.Validators{ETag: current.ETag, LastModified: current.LastModified}
		head, err := c.client.Head(ctx, c.opts.URL, validators)
		if err != nil {
			return c.fallback(cached, err, start)
		}
		if head.Status == http.StatusNotModified {
			logger.Debug("fetch: document not modified, using cached data")
			c.record(metrics.OutcomeNotModified, start)
			return current.Assets, nil
		}
	}

	res, err := c.client.Get(ctx, c.opts.URL, validators, c.opts.MaxBytes)
	var status *service.StatusError
	if current != nil && errors.As(err, &status) && status.Code == http.StatusNotModified {
		logger.Debug("fetch: GET answered not modified, using cached data")
		c.record(metrics.OutcomeNotModified, start)
		return current.Assets, nil
	}
	if err != nil {
		return c.fallback(cached, err, start)
	}

	assets, err := tsv.Parse(string(res.Body))
	if err != nil {
		c.record(metrics.OutcomeError, start)
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	next := models.CachedData{
		Assets:       assets,
		ETag:         res.ETag,
		LastModified: res.LastModified,
		Timestamp:    c.opts.Now().UnixMilli(),
	}
	if err := store.SaveCachedData(ctx, c.store, next); err != nil {
		logger.LogError("failed to write cache: %v", err)
	} else {
		logger.Debug("fetch: saved %d assets (etag=%q)", len(assets), res.ETag)
	}

	c.record(metrics.OutcomeNetwork, start)
	return assets, nil
}

func (c *Coordinator) fallback(cached *models.CachedData, err error, start time.Time) ([]models.Asset, error) {
	if cached != nil {
		logger.Warn("network unavailable, using cached data: %v", err)
		c.record(metrics.OutcomeFallback, start)
		return cached.Assets, nil
	}
	c.record(metrics.OutcomeError, start)
	return nil, &FetchError{Err: err}
}

// loadCache returns nil for any storage failure; a broken cache is treated
// as an absent one.
func (c *Coordinator) loadCache(ctx context.Context) *models.CachedData {
	d, err := store.LoadCachedData(ctx, c.store)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Debug("no cached data found")
		return nil
	case err != nil:
		logger.LogError("error reading cache: %v", err)
		return nil
	}
	logger.Debug("found cached data from %s (%d assets)",
		time.UnixMilli(d.Timestamp).Format(time.RFC3339), len(d.Assets))
	return d
}

func (c *Coordinator) record(outcome string, start time.Time) {
	c.opts.Metrics.ObserveFetch(outcome, c.opts.Now().Sub(start))
}

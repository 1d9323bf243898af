package fetcher

import (
	"fmt"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/MrSnakeDoc/artcrate/internal/service"
	"github.com/MrSnakeDoc/artcrate/internal/store"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
)

// FromConfig opens the configured store and wires a Coordinator over the
// network client. The caller owns the result and must Close it.
func FromConfig(cfg *config.Config, rec metrics.Recorder) (*Coordinator, error) {
	if _, err := utils.ParseFeedURL(cfg.FeedURL); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := service.NewSheetClient(service.NewHTTPClient(cfg.HTTP.Timeout.Duration), cfg.RequestHeaders())
	return New(st, client, Options{
		URL:      cfg.FeedURL,
		Expiry:   cfg.EffectiveExpiry(),
		MaxBytes: cfg.HTTP.MaxBytes,
		Metrics:  rec,
	}), nil
}

// Close releases the store.
func (c *Coordinator) Close() error {
	return c.store.Close()
}

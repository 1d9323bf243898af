// Package scheduler keeps the asset cache warm while the server runs.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
)

// Refresher is satisfied by the fetch coordinator.
type Refresher interface {
	FetchAssets(ctx context.Context, forceRefresh bool) ([]models.Asset, error)
}

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	target  Refresher
	entryID cron.EntryID
}

// Start registers a non-forced fetch on schedule (standard cron syntax or
// descriptors such as "@every 1h") and starts the cron loop. An empty schedule
// disables the scheduler and returns nil. Overlapping runs are joined by
// the coordinator.
func Start(ctx context.Context, schedule string, target Refresher) (*Scheduler, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		logger.Debug("scheduler: disabled")
		return nil, nil
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		ctx:    ctx,
		target: target,
	}
	id, err := s.cron.AddFunc(schedule, s.Trigger)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	logger.Debug("scheduler: refresh scheduled (%s), next at %s", schedule, s.Next().Format(time.RFC3339))
	return s, nil
}

// Trigger runs one refresh now.
func (s *Scheduler) Trigger() {
	start := time.Now()
	assets, err := s.target.FetchAssets(s.ctx, false)
	if err != nil {
		logger.Warn("scheduled refresh failed: %v", err)
		return
	}
	logger.Debug("scheduler: refresh done (%d assets in %s)", len(assets), time.Since(start).Round(time.Millisecond))
}

// Next is the time of the upcoming run.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}

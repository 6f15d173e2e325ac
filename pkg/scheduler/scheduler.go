// Package scheduler runs the nightly MLS listing refresh.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/services"
)

// Scheduler owns the cron runner for periodic background work.
type Scheduler struct {
	cron           *cron.Cron
	listingService services.ListingImportService
	schedule       string
	logger         *zap.Logger
}

// New creates a scheduler that refreshes imported listings on the given
// cron schedule. An empty schedule disables the refresh.
func New(listingService services.ListingImportService, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		listingService: listingService,
		schedule:       schedule,
		logger:         logger,
	}
}

// Start registers the refresh job and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("Listing refresh disabled, no schedule configured")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.logger.Info("Starting scheduled listing refresh")
		if err := s.listingService.RefreshAll(ctx); err != nil {
			s.logger.Error("Scheduled listing refresh failed", zap.Error(err))
			return
		}
		s.logger.Info("Scheduled listing refresh finished")
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Listing refresh scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the cron runner. Jobs already running are not interrupted.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

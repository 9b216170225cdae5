package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/application"
)

// Scheduler keeps the dashboard snapshot warm by recomputing it on a
// cron cadence. Snapshots are derived data, so a failed refresh only
// means the dashboard serves the previous one a little longer.
type Scheduler struct {
	cron    *cron.Cron
	reports *application.ReportService
	spec    string
	logger  *zap.Logger
}

// NewScheduler creates a scheduler with the given cron spec.
func NewScheduler(reports *application.ReportService, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		reports: reports,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the refresh job and begins the cron loop. It also
// runs one refresh immediately so the dashboard never starts cold.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return err
	}

	go s.refresh()

	s.logger.Info("snapshot scheduler started", zap.String("spec", s.spec))
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("snapshot scheduler stopped")
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reports.RefreshSnapshot(ctx); err != nil {
		s.logger.Error("snapshot refresh failed", zap.Error(err))
	}
}

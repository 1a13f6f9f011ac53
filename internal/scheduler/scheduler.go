package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/config"
	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/service/audit"
)

// SnapshotTaker captures a report snapshot.
type SnapshotTaker interface {
	CaptureSnapshot(ctx context.Context) (models.ReportSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reporter SnapshotTaker
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter SnapshotTaker, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard five-field cron expressions: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		schedule: cfg.CronSchedule,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.captureWeeklySnapshot); err != nil {
		s.logger.Error("failed to schedule report snapshot", zap.Error(err))
		return fmt.Errorf("schedule report snapshot: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports the registered jobs.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) captureWeeklySnapshot() {
	s.logger.Info("capturing report snapshot")
	ctx, cancel := context.WithTimeout(audit.AsSystem(context.Background()), 2*time.Minute)
	defer cancel()

	snapshot, err := s.reporter.CaptureSnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to capture report snapshot", zap.Error(err))
		return
	}

	s.logger.Info("report snapshot captured",
		zap.Int("total_assets", snapshot.TotalAssets),
		zap.String("mapping_percentage", snapshot.MappingPercentage.StringFixed(2)),
		zap.Int("discrepancies", snapshot.Discrepancies))
}

package reporting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/format"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/service/notify"
)

// ErrNoSnapshotStore is returned when snapshots are requested without a
// snapshot repository.
var ErrNoSnapshotStore = errors.New("snapshot storage not configured")

// CaptureSnapshot records the current dashboard totals and announces them.
func (s *Service) CaptureSnapshot(ctx context.Context) (models.ReportSnapshot, error) {
	if s.snapshots == nil {
		return models.ReportSnapshot{}, ErrNoSnapshotStore
	}

	records := s.source.Snapshot().Records()
	totals := pipeline.Totals(records)
	snapshot := models.ReportSnapshot{
		TakenAt:           s.now().UTC(),
		TotalAssets:       totals.Count,
		TotalValue:        totals.GrandTotal,
		VerifiedValue:     totals.VerifiedAmount,
		MappingPercentage: pipeline.MappingPercentage(totals),
		Discrepancies:     len(pipeline.Discrepancies(records, s.tolerance)),
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to save report snapshot", zap.Error(err))
		return models.ReportSnapshot{}, fmt.Errorf("save report snapshot: %w", err)
	}

	s.notifier.Notify(ctx, notify.Notification{
		Level: notify.LevelInfo,
		Title: "Weekly asset report",
		Message: fmt.Sprintf("%d assets worth %s, %s verified, %d discrepancies.",
			snapshot.TotalAssets,
			s.currency.Format(snapshot.TotalValue),
			format.FormatPercentage(snapshot.MappingPercentage),
			snapshot.Discrepancies),
	})
	s.record(ctx, models.AuditEntry{
		Action: models.AuditSnapshotCaptured,
		Details: fmt.Sprintf("%d assets, %s verified",
			snapshot.TotalAssets, format.FormatPercentage(snapshot.MappingPercentage)),
	})
	return snapshot, nil
}

// Snapshots returns up to limit stored snapshots, newest first.
func (s *Service) Snapshots(ctx context.Context, limit int) ([]models.ReportSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrNoSnapshotStore
	}
	return s.snapshots.ListSnapshots(ctx, limit)
}

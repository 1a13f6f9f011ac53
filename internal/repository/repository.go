// Package repository declares the persistence boundaries of the dashboard.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// ErrNotFound is returned when an update targets an unknown asset id.
var ErrNotFound = errors.New("record not found")

// AssetRepository is the remote asset table.
type AssetRepository interface {
	// InsertAsset stores row and returns the rows the backend created.
	InsertAsset(ctx context.Context, row models.Row) ([]models.Row, error)
	SelectAssets(ctx context.Context) ([]models.Row, error)
	// UpdateAsset replaces the row whose asset_id equals id.
	UpdateAsset(ctx context.Context, id string, row models.Row) error
}

// SnapshotRepository stores periodic report snapshots.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]models.ReportSnapshot, error)
}

// AuditRepository stores the audit log.
type AuditRepository interface {
	AppendAudit(ctx context.Context, entry models.AuditEntry) error
	// ListAudit returns up to limit entries, newest first. A limit of zero
	// or less returns every entry.
	ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

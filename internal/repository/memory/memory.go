// Package memory keeps assets, snapshots and the audit log in process memory. It backs the
// static sample mode and tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
)

// Repository implements repository.AssetRepository,
// repository.SnapshotRepository and repository.AuditRepository.
type Repository struct {
	mu        sync.RWMutex
	rows      []models.Row
	snapshots []models.ReportSnapshot
	audit     []models.AuditEntry
}

// New builds a repository holding seed.
func New(seed []models.AssetRecord) *Repository {
	rows := make([]models.Row, 0, len(seed))
	for _, rec := range seed {
		rows = append(rows, rec.Row())
	}
	return &Repository{rows: rows}
}

// InsertAsset appends row.
func (r *Repository) InsertAsset(ctx context.Context, row models.Row) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, maps.Clone(row))
	return []models.Row{maps.Clone(row)}, nil
}

// SelectAssets returns a copy of every row in insertion order.
func (r *Repository) SelectAssets(ctx context.Context) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Row, len(r.rows))
	for i, row := range r.rows {
		out[i] = maps.Clone(row)
	}
	return out, nil
}

// UpdateAsset replaces the row with the given asset id.
func (r *Repository) UpdateAsset(ctx context.Context, id string, row models.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.rows {
		if fmt.Sprint(existing["asset_id"]) == id {
			r.rows[i] = maps.Clone(row)
			return nil
		}
	}
	return fmt.Errorf("update asset %s: %w", id, repository.ErrNotFound)
}

// SaveSnapshot records a report snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]models.ReportSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ReportSnapshot, 0, len(r.snapshots))
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.snapshots[i])
	}
	return out, nil
}

// AppendAudit records entry.
func (r *Repository) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.audit = append(r.audit, entry)
	return nil
}

// ListAudit returns up to limit audit entries, newest first.
func (r *Repository) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AuditEntry, 0, len(r.audit))
	for i := len(r.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.audit[i])
	}
	return out, nil
}

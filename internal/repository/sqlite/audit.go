package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// AppendAudit inserts entry into the audit log.
func (s *KV) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, asset_id, asset_name, user_name, at, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, string(entry.Action), entry.AssetID, entry.AssetName, entry.User,
		entry.At.UTC().Format(time.RFC3339Nano), entry.Details)
	if err != nil {
		return fmt.Errorf("failed to append audit entry %s: %w", entry.ID, err)
	}
	return nil
}

// ListAudit returns up to limit audit entries, newest first. A limit of
// zero or less returns every entry.
func (s *KV) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, asset_id, asset_name, user_name, at, details
		FROM audit_log ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	out := []models.AuditEntry{}
	for rows.Next() {
		var (
			e      models.AuditEntry
			action string
			at     string
		)
		if err := rows.Scan(&e.ID, &action, &e.AssetID, &e.AssetName, &e.User, &at, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Action = models.AuditAction(action)
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("failed to parse audit time %q: %w", at, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return out, nil
}

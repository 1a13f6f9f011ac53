// Package audit records who changed the asset register and when.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
)

// SystemUser is credited with changes made without a session, such as
// scheduled snapshots and CLI runs.
const SystemUser = "system"

type systemKey struct{}

// AsSystem marks ctx so entries recorded under it are credited to
// SystemUser even while someone is signed in.
func AsSystem(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemKey{}, true)
}

// UserSource resolves the signed-in user.
type UserSource interface {
	Current(ctx context.Context) (models.User, error)
}

// Service appends to and searches the audit log.
type Service struct {
	repo   repository.AuditRepository
	users  UserSource
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds an audit service. users may be nil, in which case every
// entry is credited to SystemUser.
func NewService(repo repository.AuditRepository, users UserSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, users: users, logger: logger, now: time.Now}
}

// Record stamps entry with an id, the current time and the acting user,
// then stores it. A failed write is logged and does not fail the change
// being audited.
func (s *Service) Record(ctx context.Context, entry models.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = s.now().UTC()
	}
	if entry.User == "" {
		entry.User = s.actor(ctx)
	}

	if err := s.repo.AppendAudit(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("action", string(entry.Action)),
			zap.String("asset_id", entry.AssetID),
			zap.Error(err))
		return
	}
	s.logger.Debug("audit entry recorded", zap.String("action", string(entry.Action)), zap.String("user", entry.User))
}

func (s *Service) actor(ctx context.Context) string {
	if system, _ := ctx.Value(systemKey{}).(bool); system || s.users == nil {
		return SystemUser
	}
	user, err := s.users.Current(ctx)
	if err != nil {
		return SystemUser
	}
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		return user.Email
	}
	return SystemUser
}

// Log is a searched page of the audit log.
type Log struct {
	Entries []models.AuditEntry `json:"entries"`
	Shown   int                 `json:"shown"`
	Total   int                 `json:"total"`
	Summary string              `json:"summary"`
}

// List returns the entries matching query, newest first, capped at limit
// when limit is positive. The query matches action, asset, user and
// details, ignoring case.
func (s *Service) List(ctx context.Context, query string, limit int) (Log, error) {
	all, err := s.repo.ListAudit(ctx, 0)
	if err != nil {
		s.logger.Error("failed to list audit log", zap.Error(err))
		return Log{}, fmt.Errorf("list audit log: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	entries := make([]models.AuditEntry, 0, len(all))
	for _, e := range all {
		if limit > 0 && len(entries) == limit {
			break
		}
		if needle == "" || matches(e, needle) {
			entries = append(entries, e)
		}
	}

	return Log{
		Entries: entries,
		Shown:   len(entries),
		Total:   len(all),
		Summary: fmt.Sprintf("Showing %d of %d entries", len(entries), len(all)),
	}, nil
}

func matches(e models.AuditEntry, needle string) bool {
	for _, text := range []string{string(e.Action), e.AssetID, e.AssetName, e.User, e.Details} {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository/memory"
)

type fixedUser struct {
	user models.User
	err  error
}

func (f fixedUser) Current(context.Context) (models.User, error) { return f.user, f.err }

type brokenRepo struct{}

func (brokenRepo) AppendAudit(context.Context, models.AuditEntry) error { return errors.New("disk full") }
func (brokenRepo) ListAudit(context.Context, int) ([]models.AuditEntry, error) {
	return nil, errors.New("disk full")
}

func TestRecord_StampsEntry(t *testing.T) {
	repo := memory.New(nil)
	svc := NewService(repo, fixedUser{user: models.User{Name: "priya", Email: "priya@example.com"}}, nil)
	fixed := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	svc.Record(context.Background(), models.AuditEntry{Action: models.AuditAssetCreated, AssetID: "AST-1", AssetName: "Forklift"})

	got, err := repo.ListAudit(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "priya", got[0].User)
	assert.Equal(t, fixed, got[0].At)
}

func TestRecord_FallsBackToSystemUser(t *testing.T) {
	ctx := context.Background()
	cases := map[string]UserSource{
		"no source":  nil,
		"no session": fixedUser{err: errors.New("no active session")},
		"blank user": fixedUser{},
	}
	for name, users := range cases {
		repo := memory.New(nil)
		NewService(repo, users, nil).Record(ctx, models.AuditEntry{Action: models.AuditSnapshotCaptured})

		got, err := repo.ListAudit(ctx, 0)
		require.NoError(t, err, name)
		require.Len(t, got, 1, name)
		assert.Equal(t, SystemUser, got[0].User, name)
	}

	repo := memory.New(nil)
	NewService(repo, fixedUser{user: models.User{Email: "ops@example.com"}}, nil).
		Record(ctx, models.AuditEntry{Action: models.AuditReportExported})
	got, err := repo.ListAudit(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got[0].User)
}

func TestRecord_SystemContextIgnoresSession(t *testing.T) {
	repo := memory.New(nil)
	svc := NewService(repo, fixedUser{user: models.User{Name: "priya"}}, nil)

	svc.Record(AsSystem(context.Background()), models.AuditEntry{Action: models.AuditSnapshotCaptured})

	got, err := repo.ListAudit(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SystemUser, got[0].User)
}

func TestRecord_LogsStorageFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := NewService(brokenRepo{}, nil, zap.New(core))

	svc.Record(context.Background(), models.AuditEntry{Action: models.AuditAssetUpdated, AssetID: "AST-9"})

	entries := logs.FilterMessage("failed to record audit entry").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "AST-9", entries[0].ContextMap()["asset_id"])
}

func TestList_SearchAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(nil)
	svc := NewService(repo, nil, nil)

	svc.Record(ctx, models.AuditEntry{Action: models.AuditAssetCreated, AssetID: "AST-1", AssetName: "Forklift"})
	svc.Record(ctx, models.AuditEntry{Action: models.AuditAssetUpdated, AssetID: "AST-1", AssetName: "Forklift 2"})
	svc.Record(ctx, models.AuditEntry{Action: models.AuditReportExported, Details: "10 assets exported"})

	log, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, log.Total)
	assert.Equal(t, models.AuditReportExported, log.Entries[0].Action)
	assert.Equal(t, "Showing 3 of 3 entries", log.Summary)

	log, err = svc.List(ctx, "FORKLIFT", 0)
	require.NoError(t, err)
	require.Len(t, log.Entries, 2)
	assert.Equal(t, models.AuditAssetUpdated, log.Entries[0].Action)
	assert.Equal(t, "Showing 2 of 3 entries", log.Summary)

	log, err = svc.List(ctx, "asset", 1)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 1)
	assert.Equal(t, 3, log.Total)

	log, err = svc.List(ctx, "zzz", 0)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)
	assert.NotNil(t, log.Entries)
}

func TestList_StorageFailure(t *testing.T) {
	_, err := NewService(brokenRepo{}, nil, nil).List(context.Background(), "", 0)
	assert.ErrorContains(t, err, "list audit log")
}

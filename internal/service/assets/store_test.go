package assets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
	"github.com/mamadbah2/assetvista/internal/repository/memory"
	"github.com/mamadbah2/assetvista/internal/service/notify"
)

type failingRepo struct {
	*memory.Repository
	insertErr error
	updateErr error
}

func (f *failingRepo) InsertAsset(ctx context.Context, row models.Row) ([]models.Row, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.Repository.InsertAsset(ctx, row)
}

func (f *failingRepo) UpdateAsset(ctx context.Context, id string, row models.Row) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Repository.UpdateAsset(ctx, id, row)
}

func loadedStore(t *testing.T, repo repository.AssetRepository, n notify.Notifier, logger *zap.Logger) *Store {
	t.Helper()
	store := NewStore(repo, n, logger)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestStore_LoadPublishesVersionedSnapshot(t *testing.T) {
	store := NewStore(memory.New(models.SampleAssets()), nil, nil)
	assert.Equal(t, uint64(0), store.Snapshot().Version())
	assert.Zero(t, store.Snapshot().Len())

	require.NoError(t, store.Load(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, uint64(1), snap.Version())
	assert.Equal(t, 10, snap.Len())
	assert.True(t, snap.Contains("CLS-004"))
}

func TestStore_LoadSkipsBadRows(t *testing.T) {
	repo := memory.New(nil)
	_, err := repo.InsertAsset(context.Background(), models.Row{"asset_id": "bad", "grand_total": "n/a"})
	require.NoError(t, err)
	_, err = repo.InsertAsset(context.Background(), models.Row{"asset_id": "good", "grand_total": "12"})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	store := loadedStore(t, repo, nil, zap.New(core))

	assert.Equal(t, 1, store.Snapshot().Len())
	assert.Equal(t, 1, logs.FilterMessage("skip asset row").Len())
}

func TestStore_AddDefaultsAndPrepends(t *testing.T) {
	recorder := notify.NewRecorder(10)
	store := loadedStore(t, memory.New(models.SampleAssets()), recorder, nil)
	before := store.Snapshot()

	rec, err := store.Add(context.Background(), models.AssetDraft{
		AssetName:     "Server rack",
		AssetClass:    "Computer",
		PurchaseValue: dec("200000"),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^AST-[0-9A-F]{8}$`, rec.AssetID)
	assert.Equal(t, "200000", rec.GrandTotal.String())
	assert.Equal(t, "180000", rec.VerifiedAmount.String())
	assert.Equal(t, models.StatusActive, rec.Status)

	after := store.Snapshot()
	assert.Equal(t, before.Version()+1, after.Version())
	assert.Equal(t, 11, after.Len())
	assert.Equal(t, rec.AssetID, after.Records()[0].AssetID)
	assert.Equal(t, 10, before.Len(), "published snapshots never change")

	notes := recorder.Recent()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelSuccess, notes[0].Level)
}

func TestStore_AddKeepsSuppliedAmounts(t *testing.T) {
	store := loadedStore(t, memory.New(nil), nil, nil)

	rec, err := store.Add(context.Background(), models.AssetDraft{
		AssetName:      "Van",
		PurchaseValue:  dec("100"),
		GrandTotal:     dec("80"),
		VerifiedAmount: dec("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "80", rec.GrandTotal.String())
	assert.True(t, rec.VerifiedAmount.IsZero())
}

func TestStore_AddVerifiedDefaultFollowsGrandTotal(t *testing.T) {
	store := loadedStore(t, memory.New(nil), nil, nil)

	rec, err := store.Add(context.Background(), models.AssetDraft{PurchaseValue: dec("100"), GrandTotal: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, "45", rec.VerifiedAmount.String())
}

func TestStore_AddRerollsCollidingID(t *testing.T) {
	store := loadedStore(t, memory.New(models.SampleAssets()), nil, nil)
	ids := []string{"CLS-001", "CLS-002", "AST-FRESH001"}
	store.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	rec, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Desk"})
	require.NoError(t, err)
	assert.Equal(t, "AST-FRESH001", rec.AssetID)
}

func TestStore_AddFailureLeavesCollectionUnchanged(t *testing.T) {
	boom := errors.New("insert rejected")
	repo := &failingRepo{Repository: memory.New(models.SampleAssets()), insertErr: boom}
	recorder := notify.NewRecorder(10)
	core, logs := observer.New(zapcore.ErrorLevel)
	store := loadedStore(t, repo, recorder, zap.New(core))
	before := store.Snapshot()

	_, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Crane"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, boom)

	assert.Same(t, before, store.Snapshot())
	assert.Equal(t, 1, logs.FilterMessage("failed to add asset").Len())
	notes := recorder.Recent()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
}

func TestStore_EditReplacesWholeRecord(t *testing.T) {
	repo := memory.New(models.SampleAssets())
	store := loadedStore(t, repo, nil, nil)

	replacement := models.AssetRecord{AssetID: "CLS-002", AssetName: "Laptops", Status: models.StatusOnLoan}
	require.NoError(t, store.Edit(context.Background(), replacement))

	got, ok := store.Snapshot().Lookup("CLS-002")
	require.True(t, ok)
	assert.Equal(t, "Laptops", got.AssetName)
	assert.Empty(t, got.AssetClass, "fields are replaced, not merged")
	assert.True(t, got.GrandTotal.IsZero())
	assert.Equal(t, "CLS-002", store.Snapshot().Records()[1].AssetID, "position is kept")

	rows, err := repo.SelectAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Laptops", rows[1]["asset_name"])
}

func TestStore_EditUnknownID(t *testing.T) {
	store := loadedStore(t, memory.New(models.SampleAssets()), nil, nil)
	before := store.Snapshot()

	err := store.Edit(context.Background(), models.AssetRecord{AssetID: "nope"})
	assert.ErrorIs(t, err, ErrAssetNotFound)
	assert.Same(t, before, store.Snapshot())
}

func TestStore_EditRemoteFailure(t *testing.T) {
	repo := &failingRepo{Repository: memory.New(models.SampleAssets()), updateErr: errors.New("timeout")}
	store := loadedStore(t, repo, nil, nil)

	err := store.Edit(context.Background(), models.AssetRecord{AssetID: "CLS-001"})
	assert.ErrorIs(t, err, ErrBackend)
}

func TestStore_ConcurrentAddsAllLand(t *testing.T) {
	store := loadedStore(t, memory.New(nil), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Chair"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, 20, snap.Len())
	assert.Equal(t, uint64(21), snap.Version())
}

// notifyCheck asserts the snapshot is already published when the success
// notification fires.
type notifyCheck struct {
	store *Store
	seen  int
}

func (n *notifyCheck) Notify(_ context.Context, note notify.Notification) {
	if note.Level == notify.LevelSuccess {
		n.seen = n.store.Snapshot().Len()
	}
}

func TestStore_NotifiesAfterPublishing(t *testing.T) {
	check := &notifyCheck{}
	store := NewStore(memory.New(models.SampleAssets()), check, nil)
	check.store = store
	require.NoError(t, store.Load(context.Background()))

	_, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Drill"})
	require.NoError(t, err)
	assert.Equal(t, 11, check.seen)
}

type trailRecorder struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (r *trailRecorder) Record(_ context.Context, entry models.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func TestStore_AuditsSuccessfulWrites(t *testing.T) {
	trail := &trailRecorder{}
	store := NewStore(memory.New(models.SampleAssets()), nil, nil, WithAuditTrail(trail))
	require.NoError(t, store.Load(context.Background()))

	rec, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Crane", AssetClass: "P&M"})
	require.NoError(t, err)
	rec.Status = models.StatusUnderMaintenance
	require.NoError(t, store.Edit(context.Background(), rec))

	require.Len(t, trail.entries, 2)
	assert.Equal(t, models.AuditAssetCreated, trail.entries[0].Action)
	assert.Equal(t, rec.AssetID, trail.entries[0].AssetID)
	assert.Equal(t, "Crane", trail.entries[0].AssetName)
	assert.Equal(t, "Created P&M asset Crane", trail.entries[0].Details)
	assert.Equal(t, models.AuditAssetUpdated, trail.entries[1].Action)
	assert.Contains(t, trail.entries[1].Details, string(models.StatusUnderMaintenance))
}

func TestStore_FailedWritesAreNotAudited(t *testing.T) {
	trail := &trailRecorder{}
	repo := &failingRepo{Repository: memory.New(models.SampleAssets()), insertErr: errors.New("rejected"), updateErr: errors.New("timeout")}
	store := NewStore(repo, nil, nil, WithAuditTrail(trail))
	require.NoError(t, store.Load(context.Background()))

	_, err := store.Add(context.Background(), models.AssetDraft{AssetName: "Crane"})
	require.Error(t, err)
	require.Error(t, store.Edit(context.Background(), models.AssetRecord{AssetID: "CLS-001"}))
	require.Error(t, store.Edit(context.Background(), models.AssetRecord{AssetID: "nope"}))

	assert.Empty(t, trail.entries)
}

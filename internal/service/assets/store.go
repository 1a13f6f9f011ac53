// Package assets owns the asset collection. Every write replaces the whole
// collection with a new versioned snapshot; readers never see a snapshot
// change under them.
package assets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
	"github.com/mamadbah2/assetvista/internal/service/notify"
)

var (
	// ErrAssetNotFound is returned when an edit targets an unknown id.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrBackend marks failures of the remote asset table.
	ErrBackend = errors.New("asset backend request failed")
)

var verifiedShare = decimal.RequireFromString("0.9")

// Snapshot is an immutable view of the collection at one version.
type Snapshot struct {
	version uint64
	records []models.AssetRecord
	ids     mapset.Set[string]
}

func newSnapshot(version uint64, records []models.AssetRecord) *Snapshot {
	ids := mapset.NewThreadUnsafeSetWithSize[string](len(records))
	for _, rec := range records {
		ids.Add(rec.AssetID)
	}
	return &Snapshot{version: version, records: records, ids: ids}
}

// Version identifies the collection. It grows with every published write.
func (s *Snapshot) Version() uint64 { return s.version }

// Records returns a copy of the records, newest additions first.
func (s *Snapshot) Records() []models.AssetRecord { return slices.Clone(s.records) }

// Len reports the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Contains reports whether id is taken.
func (s *Snapshot) Contains(id string) bool { return s.ids.Contains(id) }

// Lookup returns the record with the given id.
func (s *Snapshot) Lookup(id string) (models.AssetRecord, bool) {
	i := slices.IndexFunc(s.records, func(r models.AssetRecord) bool { return r.AssetID == id })
	if i < 0 {
		return models.AssetRecord{}, false
	}
	return s.records[i], true
}

// AuditTrail records changes to the collection.
type AuditTrail interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// Option configures a Store.
type Option func(*Store)

// WithAuditTrail records every successful add and edit to trail.
func WithAuditTrail(trail AuditTrail) Option {
	return func(s *Store) { s.audit = trail }
}

// Store serializes writes to the remote table and publishes snapshots.
type Store struct {
	repo     repository.AssetRepository
	notifier notify.Notifier
	audit    AuditTrail
	logger   *zap.Logger
	newID    func() string

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore builds an empty store. Call Load to fill it.
func NewStore(repo repository.AssetRepository, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Fanout{}
	}
	s := &Store{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		newID:    syntheticID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(newSnapshot(0, []models.AssetRecord{}))
	return s
}

func syntheticID() string {
	return "AST-" + strings.ToUpper(uuid.NewString()[:8])
}

// Snapshot returns the current collection.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *Store) publish(records []models.AssetRecord) *Snapshot {
	next := newSnapshot(s.current.Load().version+1, records)
	s.current.Store(next)
	return next
}

// Load replaces the collection with the rows of the remote table. Rows that
// cannot be translated are logged and skipped.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.SelectAssets(ctx)
	if err != nil {
		s.logger.Error("failed to load assets", zap.Error(err))
		return fmt.Errorf("load assets: %w: %w", ErrBackend, err)
	}

	records := make([]models.AssetRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := models.RecordFromRow(row)
		if err != nil {
			s.logger.Warn("skip asset row", zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	snap := s.publish(records)
	s.logger.Info("assets loaded", zap.Int("count", len(records)), zap.Uint64("version", snap.version))
	return nil
}

// Add creates an asset from draft and prepends it to the collection. A
// missing grand total defaults to the purchase value and a missing verified
// amount to 90% of the grand total.
func (s *Store) Add(ctx context.Context, draft models.AssetDraft) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	rec := recordFromDraft(draft)
	rec.AssetID = s.uniqueID(current)

	created, err := s.repo.InsertAsset(ctx, rec.Row())
	if err != nil {
		s.logger.Error("failed to add asset", zap.String("asset_id", rec.AssetID), zap.Error(err))
		s.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelError,
			Title:   "Failed to add asset",
			Message: "Please try again later.",
		})
		return models.AssetRecord{}, fmt.Errorf("add asset: %w: %w", ErrBackend, err)
	}
	if len(created) > 0 {
		if stored, err := models.RecordFromRow(created[0]); err == nil && stored.AssetID == rec.AssetID {
			rec = stored
		}
	}

	records := make([]models.AssetRecord, 0, current.Len()+1)
	records = append(records, rec)
	records = append(records, current.records...)
	s.publish(records)

	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelSuccess,
		Title:   "Asset added",
		Message: fmt.Sprintf("%s has been added successfully.", rec.AssetName),
	})
	s.record(ctx, models.AuditEntry{
		Action:    models.AuditAssetCreated,
		AssetID:   rec.AssetID,
		AssetName: rec.AssetName,
		Details:   fmt.Sprintf("Created %s asset %s", rec.AssetClass, rec.AssetName),
	})
	return rec, nil
}

// Edit replaces the record whose id matches rec. No fields are merged.
func (s *Store) Edit(ctx context.Context, rec models.AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	i := slices.IndexFunc(current.records, func(r models.AssetRecord) bool { return r.AssetID == rec.AssetID })
	if i < 0 {
		return fmt.Errorf("edit asset %s: %w", rec.AssetID, ErrAssetNotFound)
	}

	if err := s.repo.UpdateAsset(ctx, rec.AssetID, rec.Row()); err != nil {
		s.logger.Error("failed to update asset", zap.String("asset_id", rec.AssetID), zap.Error(err))
		s.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelError,
			Title:   "Failed to update asset",
			Message: "Please try again later.",
		})
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("edit asset %s: %w", rec.AssetID, ErrAssetNotFound)
		}
		return fmt.Errorf("edit asset %s: %w: %w", rec.AssetID, ErrBackend, err)
	}

	records := slices.Clone(current.records)
	records[i] = rec
	s.publish(records)

	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelSuccess,
		Title:   "Asset updated",
		Message: fmt.Sprintf("%s has been updated successfully.", rec.AssetName),
	})
	s.record(ctx, models.AuditEntry{
		Action:    models.AuditAssetUpdated,
		AssetID:   rec.AssetID,
		AssetName: rec.AssetName,
		Details:   fmt.Sprintf("Updated asset %s, status %s", rec.AssetName, rec.Status),
	})
	return nil
}

func (s *Store) record(ctx context.Context, entry models.AuditEntry) {
	if s.audit != nil {
		s.audit.Record(ctx, entry)
	}
}

func (s *Store) uniqueID(snap *Snapshot) string {
	for {
		id := s.newID()
		if !snap.Contains(id) {
			return id
		}
		s.logger.Debug("synthetic id collision", zap.String("asset_id", id))
	}
}

func recordFromDraft(d models.AssetDraft) models.AssetRecord {
	rec := models.AssetRecord{
		AssetName:    d.AssetName,
		AssetClass:   d.AssetClass,
		AssetType:    d.AssetType,
		Department:   d.Department,
		Location:     d.Location,
		Status:       d.Status,
		PurchaseDate: d.PurchaseDate,
	}
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}

	rec.PurchaseValue = valueOr(d.PurchaseValue, decimal.Zero)
	rec.GrandTotal = valueOr(d.GrandTotal, rec.PurchaseValue)
	rec.VerifiedAmount = valueOr(d.VerifiedAmount, rec.GrandTotal.Mul(verifiedShare))
	rec.OutOfScopeAmount = valueOr(d.OutOfScopeAmount, decimal.Zero)
	rec.AssetWriteoffAmount = valueOr(d.AssetWriteoffAmount, decimal.Zero)
	rec.SoldOutAmount = valueOr(d.SoldOutAmount, decimal.Zero)
	return rec
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

// Package app assembles the asset store and reporting services from
// configuration. Both the HTTP server and the operator CLI start here.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/config"
	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/format"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/repository"
	"github.com/mamadbah2/assetvista/internal/repository/memory"
	"github.com/mamadbah2/assetvista/internal/repository/mongodb"
	"github.com/mamadbah2/assetvista/internal/repository/sheets"
	"github.com/mamadbah2/assetvista/internal/service/assets"
	"github.com/mamadbah2/assetvista/internal/service/audit"
	"github.com/mamadbah2/assetvista/internal/service/notify"
	"github.com/mamadbah2/assetvista/internal/service/reporting"
	"github.com/mamadbah2/assetvista/pkg/clients/webhook"
	"github.com/mamadbah2/assetvista/pkg/logger"
)

// App holds the long-lived services.
type App struct {
	Store    *assets.Store
	Reports  *reporting.Service
	Recorder *notify.Recorder
	Audit    *audit.Service

	closers []func(context.Context) error
}

type options struct {
	auditRepo repository.AuditRepository
	users     audit.UserSource
}

// Option adjusts how New assembles the application.
type Option func(*options)

// WithAuditLog stores the audit log in repo and credits entries to the
// user returned by users. Without it the log lives in memory and every
// entry is credited to the system user.
func WithAuditLog(repo repository.AuditRepository, users audit.UserSource) Option {
	return func(o *options) {
		o.auditRepo = repo
		o.users = users
	}
}

// Backends is the storage selected by configuration.
type Backends struct {
	Assets    repository.AssetRepository
	Snapshots repository.SnapshotRepository
	Close     func(context.Context) error
}

// OpenBackends connects to the backend named by cfg.Backend.
func OpenBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (Backends, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		repo := memory.New(models.SampleAssets())
		return Backends{Assets: repo, Snapshots: repo, Close: noop}, nil

	case config.BackendMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(log, "repo.mongodb"))
		if err != nil {
			return Backends{}, fmt.Errorf("init mongodb repository: %w", err)
		}
		return Backends{Assets: repo, Snapshots: repo, Close: repo.Close}, nil

	case config.BackendSheets:
		sheetRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(log, "repo.sheets"))
		if err != nil {
			return Backends{}, fmt.Errorf("init sheets repository: %w", err)
		}
		// The sheet only holds assets; snapshots live for the process lifetime.
		return Backends{
			Assets:    sheets.NewAssetTable(sheetRepo, cfg.Sheets.AssetRange, logger.Named(log, "repo.sheets")),
			Snapshots: memory.New(nil),
			Close:     noop,
		}, nil
	}
	return Backends{}, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// NewNotifier fans notifications out to the log, the in-memory feed and,
// when configured, the webhook.
func NewNotifier(cfg config.NotifyConfig, recorder *notify.Recorder, log *zap.Logger) notify.Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	fan := notify.Fanout{notify.NewLogNotifier(logger.Named(log, "notify")), recorder}
	if cfg.WebhookURL != "" {
		fan = append(fan, notify.NewWebhookNotifier(webhook.NewClient(cfg), logger.Named(log, "notify.webhook")))
		log.Info("notification webhook enabled")
	}
	return fan
}

// NewCurrencyFormatter builds the formatter for the configured display units.
func NewCurrencyFormatter(cfg config.DisplayConfig) *format.CurrencyFormatter {
	return format.NewCurrencyFormatter(format.Units{
		Symbol:          cfg.CurrencySymbol,
		TenMillion:      cfg.TenMillionLabel,
		HundredThousand: cfg.HundredThousandLabel,
		Thousand:        cfg.ThousandLabel,
		Locale:          cfg.Locale,
	})
}

// New opens the backends, loads the asset collection and builds the
// reporting service.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.auditRepo == nil {
		o.auditRepo = memory.New(nil)
	}

	backends, err := OpenBackends(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{closers: []func(context.Context) error{backends.Close}}

	a.Recorder = notify.NewRecorder(0)
	notifier := NewNotifier(cfg.Notify, a.Recorder, log)

	a.Audit = audit.NewService(o.auditRepo, o.users, logger.Named(log, "svc.audit"))

	a.Store = assets.NewStore(backends.Assets, notifier, logger.Named(log, "svc.assets"), assets.WithAuditTrail(a.Audit))
	if err := a.Store.Load(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("load assets: %w", err)
	}

	engine, err := pipeline.NewEngine(cfg.Cache.ViewCacheSize)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("init view cache: %w", err)
	}

	a.Reports = reporting.NewService(a.Store, engine, NewCurrencyFormatter(cfg.Display), reporting.Options{
		Snapshots: backends.Snapshots,
		Notifier:  notifier,
		Audit:     a.Audit,
		Tolerance: cfg.Reconcile.Tolerance,
		Logger:    logger.Named(log, "svc.reporting"),
	})
	return a, nil
}

// Close releases the backends.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c(ctx))
	}
	return errors.Join(errs...)
}

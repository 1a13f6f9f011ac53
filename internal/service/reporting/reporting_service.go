package reporting

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/format"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/repository"
	"github.com/mamadbah2/assetvista/internal/service/assets"
	"github.com/mamadbah2/assetvista/internal/service/notify"
)

// Source hands out the current asset collection.
type Source interface {
	Snapshot() *assets.Snapshot
}

// Options carries the optional collaborators of the service.
type Options struct {
	Snapshots repository.SnapshotRepository
	Notifier  notify.Notifier
	Audit     assets.AuditTrail
	Tolerance decimal.Decimal
	Logger    *zap.Logger
}

// Service turns the asset collection into the payloads of every screen.
type Service struct {
	source    Source
	engine    *pipeline.Engine
	currency  *format.CurrencyFormatter
	snapshots repository.SnapshotRepository
	notifier  notify.Notifier
	audit     assets.AuditTrail
	tolerance decimal.Decimal
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(source Source, engine *pipeline.Engine, currency *format.CurrencyFormatter, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Fanout{}
	}
	return &Service{
		source:    source,
		engine:    engine,
		currency:  currency,
		snapshots: opts.Snapshots,
		notifier:  opts.Notifier,
		audit:     opts.Audit,
		tolerance: opts.Tolerance,
		logger:    opts.Logger,
		now:       time.Now,
	}
}

// Card is one headline figure.
type Card struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

// Dashboard holds the headline totals of the collection.
type Dashboard struct {
	TotalAssets       int             `json:"totalAssets"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	VerifiedValue     decimal.Decimal `json:"verifiedValue"`
	MappingPercentage decimal.Decimal `json:"mappingPercentage"`
	Cards             []Card          `json:"cards"`
}

// Dashboard computes the headline cards.
func (s *Service) Dashboard() Dashboard {
	totals := pipeline.Totals(s.source.Snapshot().Records())
	mapping := pipeline.MappingPercentage(totals)

	return Dashboard{
		TotalAssets:       totals.Count,
		TotalValue:        totals.GrandTotal,
		VerifiedValue:     totals.VerifiedAmount,
		MappingPercentage: mapping,
		Cards: []Card{
			{Title: "Total Assets", Value: strconv.Itoa(totals.Count), Caption: "Asset classes tracked"},
			{Title: "Total Value", Value: s.currency.Format(totals.GrandTotal), Caption: "Combined asset value"},
			{Title: "Verified Value", Value: s.currency.Format(totals.VerifiedAmount), Caption: "Verified & matched assets"},
			{Title: "Mapping %", Value: format.FormatPercentage(mapping), Caption: "Percentage of verified assets"},
		},
	}
}

// ClassBar is one stacked bar of the overview chart.
type ClassBar struct {
	AssetClass          string          `json:"assetClass"`
	VerifiedAmount      decimal.Decimal `json:"verifiedAmount"`
	OutOfScopeAmount    decimal.Decimal `json:"outOfScopeAmount"`
	AssetWriteoffAmount decimal.Decimal `json:"assetWriteoffAmount"`
	SoldOutAmount       decimal.Decimal `json:"soldOutAmount"`
}

// Overview is the value distribution across classes and segments.
type Overview struct {
	Classes      []ClassBar            `json:"classes"`
	Distribution []models.SegmentShare `json:"distribution"`
}

var segments = []struct {
	name  string
	field models.Field
}{
	{"Verified", models.FieldVerifiedAmount},
	{"Out of Scope", models.FieldOutOfScopeAmount},
	{"Asset Writeoff", models.FieldAssetWriteoffAmount},
	{"Sold Out", models.FieldSoldOutAmount},
}

func segmentView(f models.Field) pipeline.View {
	return pipeline.View{
		Name:    "class-segment-" + string(f),
		GroupBy: models.FieldAssetClass,
		Measure: pipeline.Sum(f),
	}
}

// Overview computes the per-class stacked bars and the four-segment
// distribution of the grand total.
func (s *Service) Overview() Overview {
	snap := s.source.Snapshot()
	records := snap.Records()

	var bars []ClassBar
	for i, seg := range segments {
		groups := s.engine.Groups(snap.Version(), records, "", segmentView(seg.field))
		if i == 0 {
			bars = make([]ClassBar, len(groups))
			for j, g := range groups {
				bars[j].AssetClass = g.Key
			}
		}
		for j, g := range groups {
			switch seg.field {
			case models.FieldVerifiedAmount:
				bars[j].VerifiedAmount = g.Measure
			case models.FieldOutOfScopeAmount:
				bars[j].OutOfScopeAmount = g.Measure
			case models.FieldAssetWriteoffAmount:
				bars[j].AssetWriteoffAmount = g.Measure
			case models.FieldSoldOutAmount:
				bars[j].SoldOutAmount = g.Measure
			}
		}
	}

	totals := pipeline.Totals(records)
	distribution := make([]models.SegmentShare, 0, len(segments))
	for _, seg := range segments {
		value := totalFor(totals, seg.field)
		distribution = append(distribution, models.SegmentShare{
			Name:    seg.name,
			Field:   seg.field,
			Value:   value,
			Display: s.currency.Format(value),
			Percent: format.FormatPercentage(pipeline.Percentage(value, totals.GrandTotal)),
			Color:   format.SegmentColor(seg.field),
		})
	}

	return Overview{Classes: bars, Distribution: distribution}
}

func totalFor(t models.Totals, f models.Field) decimal.Decimal {
	switch f {
	case models.FieldPurchaseValue:
		return t.PurchaseValue
	case models.FieldVerifiedAmount:
		return t.VerifiedAmount
	case models.FieldOutOfScopeAmount:
		return t.OutOfScopeAmount
	case models.FieldAssetWriteoffAmount:
		return t.AssetWriteoffAmount
	case models.FieldSoldOutAmount:
		return t.SoldOutAmount
	case models.FieldGrandTotal:
		return t.GrandTotal
	}
	return decimal.Zero
}

// ReportsPage is the summary shown on the reports screen.
type ReportsPage struct {
	TotalAssets       int                `json:"totalAssets"`
	TotalValue        decimal.Decimal    `json:"totalValue"`
	TotalValueDisplay string             `json:"totalValueDisplay"`
	AssetTypes        int                `json:"assetTypes"`
	ByType            []models.GroupView `json:"byType"`
	ByStatus          []models.GroupView `json:"byStatus"`
	DepartmentValue   []models.GroupView `json:"departmentValue"`
}

// Reports computes the reports screen.
func (s *Service) Reports() ReportsPage {
	snap := s.source.Snapshot()
	records := snap.Records()
	totals := pipeline.Totals(records)

	byType := s.engine.Groups(snap.Version(), records, "", pipeline.AssetsByType)
	return ReportsPage{
		TotalAssets:       totals.Count,
		TotalValue:        totals.GrandTotal,
		TotalValueDisplay: s.currency.Format(totals.GrandTotal),
		AssetTypes:        len(byType),
		ByType:            s.decorate(byType, pipeline.AssetsByType.Measure),
		ByStatus:          s.decorate(s.engine.Groups(snap.Version(), records, "", pipeline.AssetsByStatus), pipeline.AssetsByStatus.Measure),
		DepartmentValue:   s.decorate(s.engine.Groups(snap.Version(), records, "", pipeline.DepartmentValue), pipeline.DepartmentValue.Measure),
	}
}

// Groups runs an ad-hoc grouping over the filtered collection.
func (s *Service) Groups(query string, groupBy models.Field, measure pipeline.Measure, order *pipeline.GroupSort) []models.GroupView {
	snap := s.source.Snapshot()
	view := pipeline.View{
		Name:    "adhoc",
		GroupBy: groupBy,
		Measure: measure,
		Order:   order,
	}
	return s.decorate(s.engine.Groups(snap.Version(), snap.Records(), query, view), measure)
}

func (s *Service) decorate(groups []models.AggregatedGroup, measure pipeline.Measure) []models.GroupView {
	out := make([]models.GroupView, len(groups))
	for i, g := range groups {
		display := g.Measure.String()
		if measure.Kind == pipeline.MeasureSum {
			display = s.currency.Format(g.Measure)
		}
		out[i] = models.GroupView{Key: g.Key, Measure: g.Measure, Display: display, Color: format.PaletteColor(i)}
	}
	return out
}

// Discrepancies lists records whose components do not reconcile.
func (s *Service) Discrepancies() []models.Discrepancy {
	return pipeline.Discrepancies(s.source.Snapshot().Records(), s.tolerance)
}

package reporting

import (
	"fmt"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/format"
	"github.com/mamadbah2/assetvista/internal/pipeline"
)

// TableRow is a record with its display strings.
type TableRow struct {
	models.AssetRecord
	Display map[models.Field]string `json:"display"`
	Tone    format.Tone             `json:"tone"`
}

// TableFooter is the grand-total row, summed over the whole collection.
type TableFooter struct {
	Totals  models.Totals           `json:"totals"`
	Display map[models.Field]string `json:"display"`
}

// Table is the searchable, sortable asset table.
type Table struct {
	Rows    []TableRow        `json:"rows"`
	Footer  TableFooter       `json:"footer"`
	Sort    pipeline.SortSpec `json:"sort"`
	Shown   int               `json:"shown"`
	Total   int               `json:"total"`
	Summary string            `json:"summary"`
}

// Table filters the collection by query and sorts it by spec. A zero spec
// uses the default table sort.
func (s *Service) Table(query string, spec pipeline.SortSpec) Table {
	if spec.Field == "" {
		spec = pipeline.DefaultTableSort
	}
	if spec.Direction == "" {
		spec.Direction = pipeline.Ascending
	}

	records := s.source.Snapshot().Records()
	filtered := pipeline.Filter(records, query, pipeline.TableSearchFields...)
	sorted := pipeline.SortRecords(filtered, spec)

	rows := make([]TableRow, len(sorted))
	for i, rec := range sorted {
		rows[i] = s.tableRow(rec)
	}

	totals := pipeline.Totals(records)
	return Table{
		Rows:    rows,
		Footer:  TableFooter{Totals: totals, Display: s.amountDisplay(totals)},
		Sort:    spec,
		Shown:   len(rows),
		Total:   len(records),
		Summary: fmt.Sprintf("Showing %d of %d assets", len(rows), len(records)),
	}
}

func (s *Service) tableRow(rec models.AssetRecord) TableRow {
	display := make(map[models.Field]string, len(models.Columns))
	for _, c := range models.Columns {
		if c.Kind == models.KindAmount {
			display[c.Field] = s.currency.Format(rec.Amount(c.Field))
		}
	}
	return TableRow{AssetRecord: rec, Display: display, Tone: format.StatusTone(rec.Status)}
}

func (s *Service) amountDisplay(t models.Totals) map[models.Field]string {
	display := make(map[models.Field]string, len(models.Columns))
	for _, c := range models.Columns {
		if c.Kind == models.KindAmount {
			display[c.Field] = s.currency.Format(totalFor(t, c.Field))
		}
	}
	return display
}

// ClassPage lists the assets of one routed asset type.
type ClassPage struct {
	Route         models.AssetClassRoute `json:"route"`
	Title         string                 `json:"title"`
	Count         int                    `json:"count"`
	Summary       string                 `json:"summary"`
	TotalValue    string                 `json:"totalValue"`
	VerifiedValue string                 `json:"verifiedValue"`
	Assets        []TableRow             `json:"assets"`
	Empty         bool                   `json:"empty"`
	EmptyMessage  string                 `json:"emptyMessage,omitempty"`
}

// ClassPage builds the page for route by exact asset type.
func (s *Service) ClassPage(route models.AssetClassRoute) ClassPage {
	matched := pipeline.Where(s.source.Snapshot().Records(), models.FieldAssetType, route.AssetType)
	totals := pipeline.Totals(matched)

	rows := make([]TableRow, len(matched))
	for i, rec := range matched {
		rows[i] = s.tableRow(rec)
	}

	page := ClassPage{
		Route:         route,
		Title:         route.AssetType,
		Count:         len(matched),
		Summary:       fmt.Sprintf("%d assets found", len(matched)),
		TotalValue:    s.currency.Format(totals.GrandTotal),
		VerifiedValue: s.currency.Format(totals.VerifiedAmount),
		Assets:        rows,
		Empty:         len(matched) == 0,
	}
	if page.Empty {
		page.EmptyMessage = fmt.Sprintf("No %s Found", route.AssetType)
	}
	return page
}

package pipeline

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// Direction is a sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc", "desc" or "" (ascending).
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortSpec is the active sort of a table.
type SortSpec struct {
	Field     models.Field `json:"field"`
	Direction Direction    `json:"direction"`
}

// Toggle applies a click on a column header: the active column flips
// direction, any other column becomes active in ascending order.
func (s SortSpec) Toggle(field models.Field) SortSpec {
	if s.Field == field {
		return SortSpec{Field: field, Direction: s.Direction.Reverse()}
	}
	return SortSpec{Field: field, Direction: Ascending}
}

// GroupSortKey selects what a group list is ordered by.
type GroupSortKey string

const (
	ByKey     GroupSortKey = "key"
	ByMeasure GroupSortKey = "measure"
)

// GroupSort is the sort applied to an aggregated group list.
type GroupSort struct {
	By        GroupSortKey
	Direction Direction
}

// SortRecords returns a new slice ordered by spec. Text compares with English
// collation, amounts numerically, dates chronologically. Ties keep their
// input order.
func SortRecords(records []models.AssetRecord, spec SortSpec) []models.AssetRecord {
	var cmp func(a, b models.AssetRecord) int

	switch spec.Field.Kind() {
	case models.KindAmount:
		cmp = func(a, b models.AssetRecord) int {
			return a.Amount(spec.Field).Cmp(b.Amount(spec.Field))
		}
	case models.KindDate:
		cmp = func(a, b models.AssetRecord) int {
			return a.DateValue(spec.Field).Compare(b.DateValue(spec.Field).Time)
		}
	default:
		col := newCollator()
		cmp = func(a, b models.AssetRecord) int {
			return col.CompareString(a.Text(spec.Field), b.Text(spec.Field))
		}
	}

	return stableSort(records, cmp, spec.Direction)
}

// SortGroups returns a new slice of groups ordered by key or measure.
func SortGroups(groups []models.AggregatedGroup, spec GroupSort) []models.AggregatedGroup {
	var cmp func(a, b models.AggregatedGroup) int
	if spec.By == ByKey {
		col := newCollator()
		cmp = func(a, b models.AggregatedGroup) int { return col.CompareString(a.Key, b.Key) }
	} else {
		cmp = func(a, b models.AggregatedGroup) int { return a.Measure.Cmp(b.Measure) }
	}
	return stableSort(groups, cmp, spec.Direction)
}

func stableSort[T any](items []T, cmp func(a, b T) int, dir Direction) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	if dir == Descending {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Collators keep scratch buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

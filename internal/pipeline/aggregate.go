package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// MeasureKind selects what a group accumulates.
type MeasureKind int

const (
	MeasureCount MeasureKind = iota
	MeasureSum
)

// Measure describes the per-group value: a record count or the sum of an
// amount field.
type Measure struct {
	Kind  MeasureKind
	Field models.Field
}

// Count counts records per group.
func Count() Measure { return Measure{Kind: MeasureCount} }

// Sum adds field per group.
func Sum(field models.Field) Measure { return Measure{Kind: MeasureSum, Field: field} }

// String renders the measure in the form ParseMeasure accepts.
func (m Measure) String() string {
	if m.Kind == MeasureSum {
		return "sum:" + string(m.Field)
	}
	return "count"
}

// ParseMeasure accepts "count" or "sum:<amount field>".
func ParseMeasure(s string) (Measure, error) {
	if s == "" || s == "count" {
		return Count(), nil
	}
	name, ok := strings.CutPrefix(s, "sum:")
	if !ok {
		return Measure{}, fmt.Errorf("unknown measure %q", s)
	}
	field, err := models.ParseField(name)
	if err != nil {
		return Measure{}, err
	}
	if field.Kind() != models.KindAmount {
		return Measure{}, fmt.Errorf("field %q is not an amount", name)
	}
	return Sum(field), nil
}

// Aggregate groups records by the value of groupBy and computes measure for
// each group. Groups appear in first-encounter order. Records whose grouping
// value is empty or blank belong to no group and are skipped.
func Aggregate(records []models.AssetRecord, groupBy models.Field, measure Measure) []models.AggregatedGroup {
	groups := make([]models.AggregatedGroup, 0)
	index := make(map[string]int)

	for _, rec := range records {
		key := rec.Text(groupBy)
		if strings.TrimSpace(key) == "" {
			continue
		}

		var value decimal.Decimal
		if measure.Kind == MeasureSum {
			value = rec.Amount(measure.Field)
		} else {
			value = decimal.NewFromInt(1)
		}

		if i, ok := index[key]; ok {
			groups[i].Measure = groups[i].Measure.Add(value)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, models.AggregatedGroup{Key: key, Measure: value})
	}

	return groups
}

// Package pipeline implements the record view engine shared by every screen:
// filtering, grouping with exact sums, stable sorting, and column totals.
// All functions are pure and never mutate their input slices.
package pipeline

import (
	"strings"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// DefaultSearchFields are matched by the free-text search when a view does
// not name its own.
var DefaultSearchFields = []models.Field{
	models.FieldAssetID,
	models.FieldAssetName,
	models.FieldAssetClass,
}

// Filter keeps the records whose text in any of fields contains query,
// ignoring case. An empty query returns records unchanged.
func Filter(records []models.AssetRecord, query string, fields ...models.Field) []models.AssetRecord {
	if query == "" {
		return records
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	needle := strings.ToLower(query)
	out := make([]models.AssetRecord, 0, len(records))
	for _, rec := range records {
		if matchesAny(rec, needle, fields) {
			out = append(out, rec)
		}
	}
	return out
}

// Where keeps the records whose field equals value exactly.
func Where(records []models.AssetRecord, field models.Field, value string) []models.AssetRecord {
	out := make([]models.AssetRecord, 0, len(records))
	for _, rec := range records {
		if rec.Text(field) == value {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAny(rec models.AssetRecord, needle string, fields []models.Field) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(rec.Text(f)), needle) {
			return true
		}
	}
	return false
}

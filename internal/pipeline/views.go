package pipeline

import (
	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// View is the per-screen configuration of the pipeline: which fields the
// search box matches, how records are grouped and measured, and how the
// groups are ordered. A nil Order keeps first-encounter order.
type View struct {
	Name         string
	SearchFields []models.Field
	GroupBy      models.Field
	Measure      Measure
	Order        *GroupSort
}

var byMeasureDesc = &GroupSort{By: ByMeasure, Direction: Descending}

// Views used by the dashboard and report screens.
var (
	AssetsByType = View{
		Name:    "assets-by-type",
		GroupBy: models.FieldAssetType,
		Measure: Count(),
	}
	AssetsByStatus = View{
		Name:    "assets-by-status",
		GroupBy: models.FieldStatus,
		Measure: Count(),
	}
	DepartmentValue = View{
		Name:    "department-value",
		GroupBy: models.FieldDepartment,
		Measure: Sum(models.FieldGrandTotal),
	}
	ClassValue = View{
		Name:    "class-value",
		GroupBy: models.FieldAssetClass,
		Measure: Sum(models.FieldGrandTotal),
		Order:   byMeasureDesc,
	}
)

// TableSearchFields are matched by the asset table search box.
var TableSearchFields = []models.Field{
	models.FieldAssetClass,
	models.FieldAssetName,
	models.FieldAssetID,
}

// DefaultTableSort is the initial sort of the asset table.
var DefaultTableSort = SortSpec{Field: models.FieldAssetClass, Direction: Ascending}

// Run applies the view to records without caching.
func (v View) Run(records []models.AssetRecord, query string) []models.AggregatedGroup {
	filtered := Filter(records, query, v.searchFields()...)
	groups := Aggregate(filtered, v.GroupBy, v.Measure)
	if v.Order != nil {
		groups = SortGroups(groups, *v.Order)
	}
	return groups
}

func (v View) searchFields() []models.Field {
	if len(v.SearchFields) == 0 {
		return DefaultSearchFields
	}
	return v.SearchFields
}

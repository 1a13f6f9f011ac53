package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSnapshot represents the periodic dashboard totals stored by the scheduler.
type ReportSnapshot struct {
	TakenAt           time.Time       `bson:"taken_at" json:"takenAt"`
	TotalAssets       int             `bson:"total_assets" json:"totalAssets"`
	TotalValue        decimal.Decimal `bson:"-" json:"totalValue"`
	VerifiedValue     decimal.Decimal `bson:"-" json:"verifiedValue"`
	MappingPercentage decimal.Decimal `bson:"-" json:"mappingPercentage"`
	Discrepancies     int             `bson:"discrepancies" json:"discrepancies"`
}

// SegmentShare is one slice of the value distribution across amount columns.
type SegmentShare struct {
	Name    string          `json:"name"`
	Field   Field           `json:"field"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
	Percent string          `json:"percent"`
	Color   string          `json:"color"`
}

// GroupView is an aggregated group decorated for display.
type GroupView struct {
	Key     string          `json:"name"`
	Measure decimal.Decimal `json:"value"`
	Display string          `json:"display"`
	Color   string          `json:"color"`
}

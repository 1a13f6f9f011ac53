package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used for purchase dates everywhere.
const DateLayout = "2006-01-02"

// AssetStatus enumerates the lifecycle states shown on asset badges.
type AssetStatus string

const (
	StatusActive           AssetStatus = "Active"
	StatusUnderMaintenance AssetStatus = "Under Maintenance"
	StatusDisposed         AssetStatus = "Disposed"
	StatusOnLoan           AssetStatus = "On Loan"
)

// AssetRecord is one fixed asset as held by the record store.
type AssetRecord struct {
	AssetID      string      `json:"assetId"`
	AssetName    string      `json:"assetName"`
	AssetClass   string      `json:"assetClass"`
	AssetType    string      `json:"assetType"`
	Department   string      `json:"department"`
	Location     string      `json:"location"`
	Status       AssetStatus `json:"status"`
	PurchaseDate Date        `json:"purchaseDate"`

	PurchaseValue       decimal.Decimal `json:"purchaseValue"`
	VerifiedAmount      decimal.Decimal `json:"verifiedAmount"`
	OutOfScopeAmount    decimal.Decimal `json:"outOfScopeAmount"`
	AssetWriteoffAmount decimal.Decimal `json:"assetWriteoffAmount"`
	SoldOutAmount       decimal.Decimal `json:"soldOutAmount"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
}

// ComponentSum adds the four amounts that should reconcile to GrandTotal.
func (a AssetRecord) ComponentSum() decimal.Decimal {
	return a.VerifiedAmount.
		Add(a.OutOfScopeAmount).
		Add(a.AssetWriteoffAmount).
		Add(a.SoldOutAmount)
}

// AssetDraft carries user-entered fields for a new asset. Nil amounts were not
// supplied and are eligible for defaulting.
type AssetDraft struct {
	AssetName    string
	AssetClass   string
	AssetType    string
	Department   string
	Location     string
	Status       AssetStatus
	PurchaseDate Date

	PurchaseValue       *decimal.Decimal
	VerifiedAmount      *decimal.Decimal
	OutOfScopeAmount    *decimal.Decimal
	AssetWriteoffAmount *decimal.Decimal
	SoldOutAmount       *decimal.Decimal
	GrandTotal          *decimal.Decimal
}

// AggregatedGroup is one bucket produced by the aggregation stage.
type AggregatedGroup struct {
	Key     string          `json:"key"`
	Measure decimal.Decimal `json:"measure"`
}

// Totals holds column sums over a record collection.
type Totals struct {
	Count               int             `json:"count"`
	PurchaseValue       decimal.Decimal `json:"purchaseValue"`
	VerifiedAmount      decimal.Decimal `json:"verifiedAmount"`
	OutOfScopeAmount    decimal.Decimal `json:"outOfScopeAmount"`
	AssetWriteoffAmount decimal.Decimal `json:"assetWriteoffAmount"`
	SoldOutAmount       decimal.Decimal `json:"soldOutAmount"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
}

// Discrepancy reports a record whose component amounts do not reconcile to
// its grand total.
type Discrepancy struct {
	AssetID      string          `json:"assetId"`
	AssetName    string          `json:"assetName"`
	AssetClass   string          `json:"assetClass"`
	ComponentSum decimal.Decimal `json:"componentSum"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Gap          decimal.Decimal `json:"gap"`
}

// Date is a calendar date without time-of-day. The zero value means unknown.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD value; longer timestamps are cut to the date part.
func ParseDate(value string) (Date, error) {
	if value == "" {
		return Date{}, nil
	}
	if len(value) > len(DateLayout) {
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD, or "" when unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string, an RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

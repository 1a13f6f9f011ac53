package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// Totals sums every amount column over records.
func Totals(records []models.AssetRecord) models.Totals {
	t := models.Totals{Count: len(records)}
	for _, rec := range records {
		t.PurchaseValue = t.PurchaseValue.Add(rec.PurchaseValue)
		t.VerifiedAmount = t.VerifiedAmount.Add(rec.VerifiedAmount)
		t.OutOfScopeAmount = t.OutOfScopeAmount.Add(rec.OutOfScopeAmount)
		t.AssetWriteoffAmount = t.AssetWriteoffAmount.Add(rec.AssetWriteoffAmount)
		t.SoldOutAmount = t.SoldOutAmount.Add(rec.SoldOutAmount)
		t.GrandTotal = t.GrandTotal.Add(rec.GrandTotal)
	}
	return t
}

// Percentage returns part / whole * 100, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// MappingPercentage is the share of the grand total that has been verified.
func MappingPercentage(t models.Totals) decimal.Decimal {
	return Percentage(t.VerifiedAmount, t.GrandTotal)
}

// Discrepancies lists records whose four component amounts differ from the
// grand total by more than tolerance, in input order.
func Discrepancies(records []models.AssetRecord, tolerance decimal.Decimal) []models.Discrepancy {
	out := make([]models.Discrepancy, 0)
	for _, rec := range records {
		sum := rec.ComponentSum()
		gap := rec.GrandTotal.Sub(sum)
		if gap.Abs().LessThanOrEqual(tolerance) {
			continue
		}
		out = append(out, models.Discrepancy{
			AssetID:      rec.AssetID,
			AssetName:    rec.AssetName,
			AssetClass:   rec.AssetClass,
			ComponentSum: sum,
			GrandTotal:   rec.GrandTotal,
			Gap:          gap,
		})
	}
	return out
}

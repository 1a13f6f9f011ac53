package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is a backend representation of an asset keyed by snake_case column
// names. Text and date columns hold strings, amount columns hold decimals.
type Row map[string]any

// Row translates the record into its backend form.
func (a AssetRecord) Row() Row {
	row := make(Row, len(Columns))
	for _, c := range Columns {
		switch c.Kind {
		case KindAmount:
			row[c.Key] = a.Amount(c.Field)
		default:
			row[c.Key] = a.Text(c.Field)
		}
	}
	return row
}

// RecordFromRow translates a backend row into a record. Missing columns stay
// zero; amounts accept decimals, numbers and numeric strings.
func RecordFromRow(row Row) (AssetRecord, error) {
	var rec AssetRecord
	for _, c := range Columns {
		raw, ok := row[c.Key]
		if !ok || raw == nil {
			continue
		}
		switch c.Kind {
		case KindAmount:
			d, err := ToDecimal(raw)
			if err != nil {
				return AssetRecord{}, fmt.Errorf("column %s: %w", c.Key, err)
			}
			rec.setAmount(c.Field, d)
		case KindDate:
			d, err := ParseDate(strings.TrimSpace(fmt.Sprint(raw)))
			if err != nil {
				return AssetRecord{}, fmt.Errorf("column %s: %w", c.Key, err)
			}
			rec.PurchaseDate = d
		default:
			rec.setText(c.Field, fmt.Sprint(raw))
		}
	}
	return rec, nil
}

// ToDecimal converts the numeric shapes backends hand back into a decimal.
func ToDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, nil
		}
		return *v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	case fmt.Stringer:
		return decimal.NewFromString(v.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric value %T", value)
	}
}

// ColumnKeys returns the backend column names in report order.
func ColumnKeys() []string {
	keys := make([]string, len(Columns))
	for i, c := range Columns {
		keys[i] = c.Key
	}
	return keys
}

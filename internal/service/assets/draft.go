package assets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// Form is the raw add-asset input keyed by JSON field name. Values may be
// strings or numbers.
type Form map[string]any

func (f Form) text(field models.Field) string {
	v, ok := f[string(field)]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseDraft reads a draft from form without validating it. Empty amount
// fields count as not supplied. Other amounts take their leading numeric
// prefix, so "1200abc" reads as 1200 and "abc" as 0. An unreadable purchase
// date is left unknown.
func ParseDraft(form Form) models.AssetDraft {
	draft := models.AssetDraft{
		AssetName:  form.text(models.FieldAssetName),
		AssetClass: form.text(models.FieldAssetClass),
		AssetType:  form.text(models.FieldAssetType),
		Department: form.text(models.FieldDepartment),
		Location:   form.text(models.FieldLocation),
		Status:     models.AssetStatus(form.text(models.FieldStatus)),
	}
	if d, err := models.ParseDate(form.text(models.FieldPurchaseDate)); err == nil {
		draft.PurchaseDate = d
	}

	draft.PurchaseValue = form.amount(models.FieldPurchaseValue)
	draft.VerifiedAmount = form.amount(models.FieldVerifiedAmount)
	draft.OutOfScopeAmount = form.amount(models.FieldOutOfScopeAmount)
	draft.AssetWriteoffAmount = form.amount(models.FieldAssetWriteoffAmount)
	draft.SoldOutAmount = form.amount(models.FieldSoldOutAmount)
	draft.GrandTotal = form.amount(models.FieldGrandTotal)
	return draft
}

func (f Form) amount(field models.Field) *decimal.Decimal {
	raw := f.text(field)
	if raw == "" {
		return nil
	}
	d := leadingNumber(raw)
	return &d
}

// leadingNumber parses the longest numeric prefix of s, or returns zero.
func leadingNumber(s string) decimal.Decimal {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return decimal.Zero
	}
	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}

	prefix := strings.TrimPrefix(strings.TrimSuffix(s[:end], "."), "+")
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

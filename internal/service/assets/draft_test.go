package assets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

func TestParseDraft_Coercion(t *testing.T) {
	draft := ParseDraft(Form{
		"assetName":      "  Forklift ",
		"status":         "Under Maintenance",
		"purchaseDate":   "2024-02-29",
		"purchaseValue":  "1200abc",
		"verifiedAmount": "abc",
		"grandTotal":     json.Number("1500.75"),
		"soldOutAmount":  "",
	})

	assert.Equal(t, "Forklift", draft.AssetName)
	assert.Equal(t, models.StatusUnderMaintenance, draft.Status)
	assert.Equal(t, "2024-02-29", draft.PurchaseDate.String())

	require.NotNil(t, draft.PurchaseValue)
	assert.Equal(t, "1200", draft.PurchaseValue.String())
	require.NotNil(t, draft.VerifiedAmount)
	assert.True(t, draft.VerifiedAmount.IsZero())
	require.NotNil(t, draft.GrandTotal)
	assert.Equal(t, "1500.75", draft.GrandTotal.String())

	assert.Nil(t, draft.SoldOutAmount)
	assert.Nil(t, draft.OutOfScopeAmount)
}

func TestParseDraft_BadDateIsUnknown(t *testing.T) {
	draft := ParseDraft(Form{"purchaseDate": "yesterday"})
	assert.True(t, draft.PurchaseDate.IsZero())
}

func TestLeadingNumber(t *testing.T) {
	cases := map[string]string{
		"42":       "42",
		"-3.5kg":   "-3.5",
		"1e3 rs":   "1000",
		"7e":       "7",
		"12.":      "12",
		".":        "0",
		"rs 100":   "0",
		"  ":       "0",
		"3.14.15":  "3.14",
		"+8":       "8",
		"2.5E-1xx": "0.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, leadingNumber(in).String(), "input %q", in)
	}
}

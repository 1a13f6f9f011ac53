package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

func TestToDocument_AmountsBecomeDecimal128(t *testing.T) {
	rec := models.AssetRecord{
		AssetID:    "AST-1",
		AssetName:  "Generator",
		GrandTotal: decimal.RequireFromString("4147720800.25"),
	}

	doc, err := toDocument(rec.Row())
	require.NoError(t, err)
	require.Len(t, doc, len(models.Columns))
	assert.Equal(t, "asset_id", doc[0].Key)

	m := doc.Map()
	total, ok := m["grand_total"].(primitive.Decimal128)
	require.True(t, ok, "grand_total is %T", m["grand_total"])
	assert.Equal(t, "4147720800.25", total.String())
	assert.Equal(t, "Generator", m["asset_name"])
}

func TestToDocument_RejectsBadAmount(t *testing.T) {
	_, err := toDocument(models.Row{"grand_total": "lots"})
	assert.Error(t, err)
}

func TestFromDocument_DecodesStoredAsset(t *testing.T) {
	verified, err := primitive.ParseDecimal128("2939536813")
	require.NoError(t, err)

	row := fromDocument(bson.M{
		"_id":             primitive.NewObjectID(),
		"asset_id":        "CLS-001",
		"asset_class":     "Building",
		"verified_amount": verified,
		"purchase_date":   "2021-04-01",
	})

	_, hasID := row["_id"]
	assert.False(t, hasID)

	rec, err := models.RecordFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, "CLS-001", rec.AssetID)
	assert.Equal(t, "2939536813", rec.VerifiedAmount.String())
	assert.Equal(t, "2021-04-01", rec.PurchaseDate.String())
}

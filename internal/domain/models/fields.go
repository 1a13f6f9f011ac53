package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Field names one attribute of an AssetRecord. Values match the JSON keys.
type Field string

const (
	FieldAssetID             Field = "assetId"
	FieldAssetName           Field = "assetName"
	FieldAssetClass          Field = "assetClass"
	FieldAssetType           Field = "assetType"
	FieldDepartment          Field = "department"
	FieldLocation            Field = "location"
	FieldPurchaseDate        Field = "purchaseDate"
	FieldPurchaseValue       Field = "purchaseValue"
	FieldVerifiedAmount      Field = "verifiedAmount"
	FieldOutOfScopeAmount    Field = "outOfScopeAmount"
	FieldAssetWriteoffAmount Field = "assetWriteoffAmount"
	FieldSoldOutAmount       Field = "soldOutAmount"
	FieldGrandTotal          Field = "grandTotal"
	FieldStatus              Field = "status"
)

// FieldKind decides how a field is compared and serialized.
type FieldKind int

const (
	KindText FieldKind = iota
	KindAmount
	KindDate
)

// Column binds a field to its backend column and its report header.
type Column struct {
	Field   Field
	Key     string
	Header  string
	Kind    FieldKind
	text    func(*AssetRecord) *string
	amount  func(*AssetRecord) *decimal.Decimal
	dateRef func(*AssetRecord) *Date
}

// Columns lists every record attribute in report order.
var Columns = []Column{
	{Field: FieldAssetID, Key: "asset_id", Header: "Asset ID", Kind: KindText, text: func(a *AssetRecord) *string { return &a.AssetID }},
	{Field: FieldAssetName, Key: "asset_name", Header: "Asset Name", Kind: KindText, text: func(a *AssetRecord) *string { return &a.AssetName }},
	{Field: FieldAssetClass, Key: "asset_class", Header: "Asset Class", Kind: KindText, text: func(a *AssetRecord) *string { return &a.AssetClass }},
	{Field: FieldAssetType, Key: "asset_type", Header: "Asset Type", Kind: KindText, text: func(a *AssetRecord) *string { return &a.AssetType }},
	{Field: FieldDepartment, Key: "department", Header: "Department", Kind: KindText, text: func(a *AssetRecord) *string { return &a.Department }},
	{Field: FieldLocation, Key: "location", Header: "Location", Kind: KindText, text: func(a *AssetRecord) *string { return &a.Location }},
	{Field: FieldPurchaseDate, Key: "purchase_date", Header: "Purchase Date", Kind: KindDate, dateRef: func(a *AssetRecord) *Date { return &a.PurchaseDate }},
	{Field: FieldPurchaseValue, Key: "purchase_value", Header: "Purchase Value", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.PurchaseValue }},
	{Field: FieldVerifiedAmount, Key: "verified_amount", Header: "Verified Amount", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.VerifiedAmount }},
	{Field: FieldOutOfScopeAmount, Key: "out_of_scope_amount", Header: "Out of Scope Amount", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.OutOfScopeAmount }},
	{Field: FieldAssetWriteoffAmount, Key: "asset_writeoff_amount", Header: "Asset Writeoff Amount", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.AssetWriteoffAmount }},
	{Field: FieldSoldOutAmount, Key: "sold_out_amount", Header: "Sold Out Amount", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.SoldOutAmount }},
	{Field: FieldGrandTotal, Key: "grand_total", Header: "Grand Total", Kind: KindAmount, amount: func(a *AssetRecord) *decimal.Decimal { return &a.GrandTotal }},
	{Field: FieldStatus, Key: "status", Header: "Status", Kind: KindText},
}

var columnsByField = func() map[Field]*Column {
	m := make(map[Field]*Column, len(Columns))
	for i := range Columns {
		m[Columns[i].Field] = &Columns[i]
	}
	return m
}()

// LookupColumn returns the column for f.
func LookupColumn(f Field) (Column, bool) {
	c, ok := columnsByField[f]
	if !ok {
		return Column{}, false
	}
	return *c, true
}

// ParseField validates a field name coming from a query string.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := columnsByField[f]; !ok {
		return "", fmt.Errorf("unknown field %q", name)
	}
	return f, nil
}

// Kind reports how f is compared.
func (f Field) Kind() FieldKind {
	if c, ok := columnsByField[f]; ok {
		return c.Kind
	}
	return KindText
}

// Text returns the display text of any field.
func (a AssetRecord) Text(f Field) string {
	c, ok := columnsByField[f]
	if !ok {
		return ""
	}
	switch {
	case f == FieldStatus:
		return string(a.Status)
	case c.text != nil:
		return *c.text(&a)
	case c.amount != nil:
		return c.amount(&a).String()
	case c.dateRef != nil:
		return c.dateRef(&a).String()
	}
	return ""
}

// Amount returns the numeric value of an amount field, or zero for other fields.
func (a AssetRecord) Amount(f Field) decimal.Decimal {
	c, ok := columnsByField[f]
	if !ok || c.amount == nil {
		return decimal.Zero
	}
	return *c.amount(&a)
}

// DateValue returns the value of a date field.
func (a AssetRecord) DateValue(f Field) Date {
	c, ok := columnsByField[f]
	if !ok || c.dateRef == nil {
		return Date{}
	}
	return *c.dateRef(&a)
}

func (a *AssetRecord) setText(f Field, value string) {
	if f == FieldStatus {
		a.Status = AssetStatus(value)
		return
	}
	if c, ok := columnsByField[f]; ok && c.text != nil {
		*c.text(a) = value
	}
}

func (a *AssetRecord) setAmount(f Field, value decimal.Decimal) {
	if c, ok := columnsByField[f]; ok && c.amount != nil {
		*c.amount(a) = value
	}
}

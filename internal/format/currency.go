// Package format turns pipeline values into display strings and colors.
package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	tenMillion      = decimal.NewFromInt(10_000_000)
	hundredThousand = decimal.NewFromInt(100_000)
	thousand        = decimal.NewFromInt(1_000)
)

// Units holds the labels appended to bucketed amounts.
type Units struct {
	Symbol          string
	TenMillion      string
	HundredThousand string
	Thousand        string
	Locale          string
}

// DefaultUnits renders rupees with crore, lakh and thousand suffixes.
func DefaultUnits() Units {
	return Units{
		Symbol:          "₹",
		TenMillion:      "Cr",
		HundredThousand: "L",
		Thousand:        "K",
		Locale:          "en-IN",
	}
}

// CurrencyFormatter buckets amounts by magnitude.
type CurrencyFormatter struct {
	units   Units
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter. An unparseable locale falls back
// to English.
func NewCurrencyFormatter(units Units) *CurrencyFormatter {
	tag, err := language.Parse(units.Locale)
	if err != nil {
		tag = language.English
	}
	return &CurrencyFormatter{units: units, printer: message.NewPrinter(tag)}
}

// Format renders amount as symbol + mantissa + unit. Amounts of 1,000 and
// above get a two-decimal mantissa; smaller ones are rounded to an integer and
// digit-grouped for the locale. Negative amounts are bucketed by magnitude
// and keep a leading minus sign.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	switch {
	case amount.GreaterThanOrEqual(tenMillion):
		return sign + f.units.Symbol + amount.Div(tenMillion).StringFixed(2) + f.units.TenMillion
	case amount.GreaterThanOrEqual(hundredThousand):
		return sign + f.units.Symbol + amount.Div(hundredThousand).StringFixed(2) + f.units.HundredThousand
	case amount.GreaterThanOrEqual(thousand):
		return sign + f.units.Symbol + amount.Div(thousand).StringFixed(2) + f.units.Thousand
	}
	return sign + f.units.Symbol + f.printer.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatPercentage renders value with two decimals and a percent sign.
func FormatPercentage(value decimal.Decimal) string {
	return fmt.Sprintf("%s%%", value.StringFixed(2))
}

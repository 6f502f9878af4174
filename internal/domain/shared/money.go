package shared

import (
	"github.com/shopspring/decimal"
)

// DefaultGSTRate is the standard goods and services tax rate
var DefaultGSTRate = decimal.RequireFromString("0.10")

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to whole cents using banker-free half-up rounding
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TaxableLine is a priced line that may attract GST
type TaxableLine interface {
	LineAmount() decimal.Decimal
	IsGSTApplicable() bool
}

// Totals is the computed money summary of a document
type Totals struct {
	Subtotal  decimal.Decimal
	GSTAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals sums line amounts and applies GST to taxable lines.
// Total is always Subtotal + GSTAmount.
func ComputeTotals[L TaxableLine](lines []L, gstRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	taxable := decimal.Zero
	for _, line := range lines {
		amount := line.LineAmount()
		subtotal = subtotal.Add(amount)
		if line.IsGSTApplicable() {
			taxable = taxable.Add(amount)
		}
	}
	subtotal = RoundMoney(subtotal)
	gst := RoundMoney(taxable.Mul(gstRate))
	return Totals{
		Subtotal:  subtotal,
		GSTAmount: gst,
		Total:     subtotal.Add(gst),
	}
}

// PercentOf returns pct percent of amount, rounded to cents
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(pct).Div(hundred))
}

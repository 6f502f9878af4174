package billing

import (
	"strings"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineFields are the priced fields shared by quote and invoice lines
type LineFields struct {
	Description   string          `gorm:"type:text;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTApplicable bool            `gorm:"column:gst_applicable;not null;default:true"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SortOrder     int             `gorm:"not null;default:0"`
}

// LineInput describes a line to add or replace
type LineInput struct {
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	GSTApplicable bool
	SortOrder     int
}

// NewLineFields validates input and computes the line amount
func NewLineFields(in LineInput) (LineFields, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return LineFields{}, shared.InvalidInput("description is required")
	}
	qty := in.Quantity
	if !qty.IsPositive() {
		return LineFields{}, shared.InvalidInput("quantity must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return LineFields{}, shared.InvalidInput("unit_price cannot be negative")
	}
	return LineFields{
		Description:   desc,
		Quantity:      qty,
		UnitPrice:     in.UnitPrice,
		GSTApplicable: in.GSTApplicable,
		Amount:        shared.RoundMoney(qty.Mul(in.UnitPrice)),
		SortOrder:     in.SortOrder,
	}, nil
}

// LineAmount returns quantity times unit price
func (l LineFields) LineAmount() decimal.Decimal {
	return l.Amount
}

// IsGSTApplicable reports whether GST applies to the line
func (l LineFields) IsGSTApplicable() bool {
	return l.GSTApplicable
}

// QuoteLineItem is one priced line on a quote
type QuoteLineItem struct {
	shared.BaseEntity
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineFields
}

// TableName returns the table name for GORM
func (QuoteLineItem) TableName() string {
	return "quote_line_items"
}

// InvoiceLineItem is one priced line on an invoice
type InvoiceLineItem struct {
	shared.BaseEntity
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineFields
}

// TableName returns the table name for GORM
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

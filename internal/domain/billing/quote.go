package billing

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus is the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteDeclined  QuoteStatus = "declined"
	QuoteExpired   QuoteStatus = "expired"
	QuoteConverted QuoteStatus = "converted"
)

// IsValid reports whether the status is known
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteDeclined, QuoteExpired, QuoteConverted:
		return true
	}
	return false
}

// DefaultQuoteValidityDays is how long a new quote stays valid
const DefaultQuoteValidityDays = 30

// Quote is a priced proposal that may become an invoice
type Quote struct {
	shared.TenantEntity
	ClientID          *uuid.UUID      `gorm:"type:uuid;index"`
	JobID             *uuid.UUID      `gorm:"type:uuid;index"`
	QuoteNumber       string          `gorm:"type:varchar(50);not null"`
	Title             string          `gorm:"type:varchar(255)"`
	Status            QuoteStatus     `gorm:"type:varchar(20);not null;default:'draft'"`
	IssueDate         time.Time       `gorm:"type:date;not null"`
	ValidUntil        time.Time       `gorm:"type:date;not null"`
	Notes             string          `gorm:"type:text"`
	InternalNotes     string          `gorm:"type:text"`
	GSTRate           decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,4);not null;default:0.1"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTAmount         decimal.Decimal `gorm:"column:gst_amount;type:decimal(12,2);not null;default:0"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DepositPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PublicToken       string          `gorm:"type:varchar(64);uniqueIndex"`
	InvoiceID         *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid;not null"`
	Version           int             `gorm:"not null;default:1"`

	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a draft quote
func NewQuote(organizationID, createdBy uuid.UUID, number, title string, issueDate time.Time, gstRate decimal.Decimal) (*Quote, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.InvalidInput("quote_number is required")
	}
	token, err := shared.NewPublicToken()
	if err != nil {
		return nil, err
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	issueDate = truncateDay(issueDate)
	return &Quote{
		TenantEntity:      shared.NewTenantEntity(organizationID),
		QuoteNumber:       number,
		Title:             strings.TrimSpace(title),
		Status:            QuoteDraft,
		IssueDate:         issueDate,
		ValidUntil:        issueDate.AddDate(0, 0, DefaultQuoteValidityDays),
		GSTRate:           gstRate,
		Subtotal:          decimal.Zero,
		GSTAmount:         decimal.Zero,
		TotalAmount:       decimal.Zero,
		DepositPercentage: decimal.Zero,
		PublicToken:       token,
		CreatedBy:         createdBy,
	}, nil
}

// Recalculate derives subtotal, GST and total from the line items
func (q *Quote) Recalculate() {
	totals := shared.ComputeTotals(q.LineItems, q.GSTRate)
	q.Subtotal = totals.Subtotal
	q.GSTAmount = totals.GSTAmount
	q.TotalAmount = totals.Total
}

// DepositAmount is the share of the total due up front
func (q *Quote) DepositAmount() decimal.Decimal {
	if !q.DepositPercentage.IsPositive() {
		return decimal.Zero
	}
	return shared.PercentOf(q.TotalAmount, q.DepositPercentage)
}

// IsExpired reports whether an open quote has passed its validity date
func (q *Quote) IsExpired(now time.Time) bool {
	if q.Status != QuoteDraft && q.Status != QuoteSent {
		return q.Status == QuoteExpired
	}
	return truncateDay(now).After(truncateDay(q.ValidUntil))
}

// IsDisclosable reports whether the quote may be shown via its public token
func (q *Quote) IsDisclosable() bool {
	return q.Status != QuoteDraft
}

func (q *Quote) ensureEditable() error {
	switch q.Status {
	case QuoteAccepted, QuoteConverted:
		return shared.NewDomainError("INVALID_STATE", "Accepted quotes cannot be changed")
	}
	return nil
}

// AddLine appends a line item and recalculates totals
func (q *Quote) AddLine(in LineInput) (*QuoteLineItem, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	fields, err := NewLineFields(in)
	if err != nil {
		return nil, err
	}
	if fields.SortOrder == 0 {
		fields.SortOrder = len(q.LineItems) + 1
	}
	item := QuoteLineItem{BaseEntity: shared.NewBaseEntity(), QuoteID: q.ID, LineFields: fields}
	q.LineItems = append(q.LineItems, item)
	q.Recalculate()
	q.Touch()
	return &q.LineItems[len(q.LineItems)-1], nil
}

// UpdateLine replaces a line item and recalculates totals
func (q *Quote) UpdateLine(id uuid.UUID, in LineInput) (*QuoteLineItem, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	for i := range q.LineItems {
		if q.LineItems[i].ID != id {
			continue
		}
		fields, err := NewLineFields(in)
		if err != nil {
			return nil, err
		}
		if fields.SortOrder == 0 {
			fields.SortOrder = q.LineItems[i].SortOrder
		}
		q.LineItems[i].LineFields = fields
		q.LineItems[i].Touch()
		q.Recalculate()
		q.Touch()
		return &q.LineItems[i], nil
	}
	return nil, shared.NotFound("Line item")
}

// RemoveLine deletes a line item and recalculates totals
func (q *Quote) RemoveLine(id uuid.UUID) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	for i := range q.LineItems {
		if q.LineItems[i].ID == id {
			q.LineItems = append(q.LineItems[:i], q.LineItems[i+1:]...)
			q.Recalculate()
			q.Touch()
			return nil
		}
	}
	return shared.NotFound("Line item")
}

// QuotePatch holds optional header updates
type QuotePatch struct {
	ClientID          *uuid.UUID
	JobID             *uuid.UUID
	Title             *string
	ValidUntil        *time.Time
	Notes             *string
	InternalNotes     *string
	GSTRate           *decimal.Decimal
	DepositPercentage *decimal.Decimal
	Status            *QuoteStatus
}

// Apply updates the quote header and recalculates totals
func (q *Quote) Apply(p QuotePatch) error {
	if p.Status != nil {
		if !p.Status.IsValid() {
			return shared.InvalidInput("status is not valid")
		}
		if *p.Status == QuoteConverted {
			return shared.InvalidInput("use the convert action to turn a quote into an invoice")
		}
		if q.Status == QuoteConverted {
			return shared.NewDomainError("INVALID_STATE", "Converted quotes cannot change status")
		}
		q.Status = *p.Status
	}
	if p.ClientID != nil {
		q.ClientID = p.ClientID
	}
	if p.JobID != nil {
		q.JobID = p.JobID
	}
	if p.Title != nil {
		q.Title = strings.TrimSpace(*p.Title)
	}
	if p.ValidUntil != nil {
		q.ValidUntil = truncateDay(*p.ValidUntil)
	}
	if p.Notes != nil {
		q.Notes = *p.Notes
	}
	if p.InternalNotes != nil {
		q.InternalNotes = *p.InternalNotes
	}
	if p.GSTRate != nil {
		if p.GSTRate.IsNegative() || p.GSTRate.GreaterThan(decimal.NewFromInt(1)) {
			return shared.InvalidInput("gst_rate must be between 0 and 1")
		}
		q.GSTRate = *p.GSTRate
	}
	if p.DepositPercentage != nil {
		if p.DepositPercentage.IsNegative() || p.DepositPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return shared.InvalidInput("deposit_percentage must be between 0 and 100")
		}
		q.DepositPercentage = *p.DepositPercentage
	}
	q.Recalculate()
	q.Touch()
	return nil
}

// ConvertToInvoice builds a draft invoice carrying the quote's lines and
// marks the quote converted
func (q *Quote) ConvertToInvoice(createdBy uuid.UUID, number string, issueDate time.Time, termsDays int) (*Invoice, error) {
	if q.Status == QuoteConverted {
		return nil, shared.NewDomainError("INVALID_STATE", "Quote has already been converted")
	}
	if q.Status == QuoteDeclined {
		return nil, shared.NewDomainError("INVALID_STATE", "Declined quotes cannot be converted")
	}
	if len(q.LineItems) == 0 {
		return nil, shared.NewDomainError("INVALID_STATE", "Quote has no line items")
	}
	inv, err := NewInvoice(q.OrganizationID, createdBy, number, issueDate, termsDays, q.GSTRate)
	if err != nil {
		return nil, err
	}
	inv.ClientID = q.ClientID
	inv.JobID = q.JobID
	quoteID := q.ID
	inv.QuoteID = &quoteID
	inv.Notes = q.Notes

	inputs := make([]LineInput, 0, len(q.LineItems))
	for _, l := range q.LineItems {
		inputs = append(inputs, LineInput{
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			GSTApplicable: l.GSTApplicable,
			SortOrder:     l.SortOrder,
		})
	}
	if err := inv.ReplaceLines(inputs); err != nil {
		return nil, err
	}

	q.Status = QuoteConverted
	invoiceID := inv.ID
	q.InvoiceID = &invoiceID
	q.Touch()
	return inv, nil
}

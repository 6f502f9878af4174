package billing

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceSent          InvoiceStatus = "sent"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// IsValid reports whether the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePartiallyPaid, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// PaymentMethod records how a payment was received
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentOther        PaymentMethod = "other"
)

// IsValid reports whether the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCard, PaymentCash, PaymentCheque, PaymentOther:
		return true
	}
	return false
}

// Invoice is a bill issued to a client. Money totals are always derived from
// line items and payments.
type Invoice struct {
	shared.TenantEntity
	ClientID      *uuid.UUID      `gorm:"type:uuid;index"`
	JobID         *uuid.UUID      `gorm:"type:uuid;index"`
	QuoteID       *uuid.UUID      `gorm:"type:uuid"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	IssueDate     time.Time       `gorm:"type:date;not null"`
	DueDate       time.Time       `gorm:"type:date;not null"`
	Notes         string          `gorm:"type:text"` // Shown to the client
	InternalNotes string          `gorm:"type:text"`
	GSTRate       decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,4);not null;default:0.1"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTAmount     decimal.Decimal `gorm:"column:gst_amount;type:decimal(12,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PublicToken   string          `gorm:"type:varchar(64);uniqueIndex"`
	SentAt        *time.Time
	PaidAt        *time.Time
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	// Version is 0 until the first save, then advances on every save
	Version int `gorm:"not null;default:1"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID"`
	Payments  []InvoicePayment  `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoicePayment is money received against an invoice
type InvoicePayment struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate time.Time       `gorm:"type:date;not null"`
	Method      PaymentMethod   `gorm:"type:varchar(30);not null;default:'bank_transfer'"`
	Reference   string          `gorm:"type:varchar(255)"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InvoicePayment) TableName() string {
	return "invoice_payments"
}

// NewInvoice creates a draft invoice due after the given number of days
func NewInvoice(organizationID, createdBy uuid.UUID, number string, issueDate time.Time, termsDays int, gstRate decimal.Decimal) (*Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.InvalidInput("invoice_number is required")
	}
	token, err := shared.NewPublicToken()
	if err != nil {
		return nil, err
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	issueDate = truncateDay(issueDate)
	return &Invoice{
		TenantEntity:  shared.NewTenantEntity(organizationID),
		InvoiceNumber: number,
		Status:        InvoiceDraft,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, termsDays),
		GSTRate:       gstRate,
		Subtotal:      decimal.Zero,
		GSTAmount:     decimal.Zero,
		TotalAmount:   decimal.Zero,
		AmountPaid:    decimal.Zero,
		PublicToken:   token,
		CreatedBy:     createdBy,
	}, nil
}

// Recalculate derives subtotal, GST, total, amount paid and payment status.
// It must run after every mutation of lines or payments.
func (inv *Invoice) Recalculate() {
	totals := shared.ComputeTotals(inv.LineItems, inv.GSTRate)
	inv.Subtotal = totals.Subtotal
	inv.GSTAmount = totals.GSTAmount
	inv.TotalAmount = totals.Total

	paid := decimal.Zero
	var lastPayment time.Time
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
		if p.PaymentDate.After(lastPayment) {
			lastPayment = p.PaymentDate
		}
	}
	inv.AmountPaid = shared.RoundMoney(paid)

	if inv.Status == InvoiceDraft || inv.Status == InvoiceCancelled {
		return
	}
	switch {
	case inv.AmountPaid.IsPositive() && inv.RemainingBalance().IsZero():
		inv.Status = InvoicePaid
		if inv.PaidAt == nil {
			at := lastPayment
			if at.IsZero() {
				at = time.Now()
			}
			inv.PaidAt = &at
		}
	case inv.AmountPaid.IsPositive():
		inv.Status = InvoicePartiallyPaid
		inv.PaidAt = nil
	default:
		inv.Status = InvoiceSent
		inv.PaidAt = nil
	}
}

// RemainingBalance is the unpaid part of the total, never negative
func (inv *Invoice) RemainingBalance() decimal.Decimal {
	remaining := inv.TotalAmount.Sub(inv.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsOverdue reports whether an issued invoice is past due with money owing
func (inv *Invoice) IsOverdue(now time.Time) bool {
	switch inv.Status {
	case InvoiceDraft, InvoicePaid, InvoiceCancelled:
		return false
	}
	if !inv.RemainingBalance().IsPositive() {
		return false
	}
	return truncateDay(now).After(truncateDay(inv.DueDate))
}

// IsDisclosable reports whether the invoice may be shown via its public token
func (inv *Invoice) IsDisclosable() bool {
	return inv.Status != InvoiceDraft && inv.Status != InvoiceCancelled
}

func (inv *Invoice) ensureEditable() error {
	if inv.Status == InvoiceCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be changed")
	}
	if inv.Status == InvoicePaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be changed")
	}
	return nil
}

// AddLine appends a line item and recalculates totals
func (inv *Invoice) AddLine(in LineInput) (*InvoiceLineItem, error) {
	if err := inv.ensureEditable(); err != nil {
		return nil, err
	}
	fields, err := NewLineFields(in)
	if err != nil {
		return nil, err
	}
	if fields.SortOrder == 0 {
		fields.SortOrder = len(inv.LineItems) + 1
	}
	item := InvoiceLineItem{BaseEntity: shared.NewBaseEntity(), InvoiceID: inv.ID, LineFields: fields}
	inv.LineItems = append(inv.LineItems, item)
	inv.Recalculate()
	inv.Touch()
	return &inv.LineItems[len(inv.LineItems)-1], nil
}

// UpdateLine replaces a line item and recalculates totals
func (inv *Invoice) UpdateLine(id uuid.UUID, in LineInput) (*InvoiceLineItem, error) {
	if err := inv.ensureEditable(); err != nil {
		return nil, err
	}
	for i := range inv.LineItems {
		if inv.LineItems[i].ID != id {
			continue
		}
		fields, err := NewLineFields(in)
		if err != nil {
			return nil, err
		}
		if fields.SortOrder == 0 {
			fields.SortOrder = inv.LineItems[i].SortOrder
		}
		inv.LineItems[i].LineFields = fields
		inv.LineItems[i].Touch()
		inv.Recalculate()
		inv.Touch()
		return &inv.LineItems[i], nil
	}
	return nil, shared.NotFound("Line item")
}

// RemoveLine deletes a line item and recalculates totals
func (inv *Invoice) RemoveLine(id uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	for i := range inv.LineItems {
		if inv.LineItems[i].ID == id {
			inv.LineItems = append(inv.LineItems[:i], inv.LineItems[i+1:]...)
			inv.Recalculate()
			inv.Touch()
			return nil
		}
	}
	return shared.NotFound("Line item")
}

// ReplaceLines swaps all line items, as when converting a quote
func (inv *Invoice) ReplaceLines(inputs []LineInput) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	items := make([]InvoiceLineItem, 0, len(inputs))
	for i, in := range inputs {
		fields, err := NewLineFields(in)
		if err != nil {
			return err
		}
		if fields.SortOrder == 0 {
			fields.SortOrder = i + 1
		}
		items = append(items, InvoiceLineItem{BaseEntity: shared.NewBaseEntity(), InvoiceID: inv.ID, LineFields: fields})
	}
	inv.LineItems = items
	inv.Recalculate()
	inv.Touch()
	return nil
}

// PaymentInput describes a payment to record
type PaymentInput struct {
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	RecordedBy  uuid.UUID
}

// RecordPayment adds a payment. Overpayment is rejected.
func (inv *Invoice) RecordPayment(in PaymentInput) (*InvoicePayment, error) {
	if inv.Status == InvoiceDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Send the invoice before recording payments")
	}
	if err := inv.ensureEditable(); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, shared.InvalidInput("amount must be greater than zero")
	}
	amount := shared.RoundMoney(in.Amount)
	if amount.GreaterThan(inv.RemainingBalance()) {
		return nil, shared.InvalidInput("amount exceeds the remaining balance")
	}
	method := in.Method
	if method == "" {
		method = PaymentBankTransfer
	}
	if !method.IsValid() {
		return nil, shared.InvalidInput("method is not valid")
	}
	date := in.PaymentDate
	if date.IsZero() {
		date = time.Now()
	}
	payment := InvoicePayment{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		Amount:      amount,
		PaymentDate: truncateDay(date),
		Method:      method,
		Reference:   strings.TrimSpace(in.Reference),
		RecordedBy:  in.RecordedBy,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.Recalculate()
	inv.Touch()
	return &inv.Payments[len(inv.Payments)-1], nil
}

// RemovePayment deletes a recorded payment
func (inv *Invoice) RemovePayment(id uuid.UUID) error {
	if inv.Status == InvoiceCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be changed")
	}
	for i := range inv.Payments {
		if inv.Payments[i].ID == id {
			inv.Payments = append(inv.Payments[:i], inv.Payments[i+1:]...)
			inv.Recalculate()
			inv.Touch()
			return nil
		}
	}
	return shared.NotFound("Payment")
}

// MarkSent issues a draft invoice
func (inv *Invoice) MarkSent(now time.Time) error {
	if inv.Status == InvoiceCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be sent")
	}
	if len(inv.LineItems) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Add at least one line item before sending")
	}
	if inv.Status == InvoiceDraft {
		inv.Status = InvoiceSent
	}
	inv.SentAt = &now
	inv.Recalculate()
	inv.UpdatedAt = now
	return nil
}

// Cancel voids the invoice
func (inv *Invoice) Cancel() error {
	if inv.AmountPaid.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Invoices with payments cannot be cancelled")
	}
	inv.Status = InvoiceCancelled
	inv.Touch()
	return nil
}

// InvoicePatch holds optional header updates
type InvoicePatch struct {
	ClientID      *uuid.UUID
	JobID         *uuid.UUID
	IssueDate     *time.Time
	DueDate       *time.Time
	Notes         *string
	InternalNotes *string
	GSTRate       *decimal.Decimal
	Status        *InvoiceStatus
}

// Apply updates the invoice header and recalculates totals
func (inv *Invoice) Apply(p InvoicePatch) error {
	if p.Status != nil {
		if !p.Status.IsValid() {
			return shared.InvalidInput("status is not valid")
		}
		switch *p.Status {
		case InvoiceCancelled:
			if err := inv.Cancel(); err != nil {
				return err
			}
		case InvoiceSent:
			if err := inv.MarkSent(time.Now()); err != nil {
				return err
			}
		case InvoiceDraft:
			if inv.Status != InvoiceDraft {
				return shared.NewDomainError("INVALID_STATE", "Issued invoices cannot return to draft")
			}
		default:
			// paid and partially_paid follow from payments
			return shared.InvalidInput("status " + string(*p.Status) + " is derived from payments")
		}
	}
	if err := inv.ensureEditable(); err != nil && (p.ClientID != nil || p.GSTRate != nil || p.IssueDate != nil || p.DueDate != nil) {
		return err
	}
	if p.ClientID != nil {
		inv.ClientID = p.ClientID
	}
	if p.JobID != nil {
		inv.JobID = p.JobID
	}
	if p.IssueDate != nil {
		inv.IssueDate = truncateDay(*p.IssueDate)
	}
	if p.DueDate != nil {
		inv.DueDate = truncateDay(*p.DueDate)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return shared.InvalidInput("due_date cannot be before issue_date")
	}
	if p.Notes != nil {
		inv.Notes = *p.Notes
	}
	if p.InternalNotes != nil {
		inv.InternalNotes = *p.InternalNotes
	}
	if p.GSTRate != nil {
		if p.GSTRate.IsNegative() || p.GSTRate.GreaterThan(decimal.NewFromInt(1)) {
			return shared.InvalidInput("gst_rate must be between 0 and 1")
		}
		inv.GSTRate = *p.GSTRate
	}
	inv.Recalculate()
	inv.Touch()
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

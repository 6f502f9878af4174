// Package billing holds the quote and invoice services, including the
// token-authorized public views of both documents.
package billing

import (
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListQuery selects documents of one organization. Financial lists always
// name the organization so the caller's capabilities can be checked.
type ListQuery struct {
	OrganizationID uuid.UUID
	Filter         shared.Filter
}

// CreateInvoiceInput contains the input for creating an invoice
type CreateInvoiceInput struct {
	OrganizationID uuid.UUID
	IssueDate      time.Time
	Patch          billing.InvoicePatch
	Lines          []billing.LineInput
}

// CreateQuoteInput contains the input for creating a quote
type CreateQuoteInput struct {
	OrganizationID uuid.UUID
	Title          string
	IssueDate      time.Time
	Patch          billing.QuotePatch
	Lines          []billing.LineInput
}

// InvoiceDelivery describes a sent invoice email
type InvoiceDelivery struct {
	Invoice   *billing.Invoice `json:"-"`
	EmailID   string           `json:"email_id"`
	SentTo    string           `json:"sent_to"`
	PublicURL string           `json:"public_url"`
}

// PublicInvoice is an invoice as its client may see it
type PublicInvoice struct {
	Invoice          *billing.Invoice
	Organization     *identity.Organization
	Client           *client.Client
	RemainingBalance decimal.Decimal
	IsOverdue        bool
}

// PublicQuote is a quote as its client may see it
type PublicQuote struct {
	Quote         *billing.Quote
	Organization  *identity.Organization
	Client        *client.Client
	DepositAmount decimal.Decimal
	IsExpired     bool
}

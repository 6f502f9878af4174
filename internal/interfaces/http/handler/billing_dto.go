package handler

import (
	appbilling "github.com/fieldline/backend/internal/application/billing"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// LineItemRequest is a priced line on a quote or invoice
type LineItemRequest struct {
	Description   string           `json:"description" binding:"required,max=2000" example:"Replace mixer tap"`
	Quantity      *decimal.Decimal `json:"quantity" swaggertype:"string" example:"1"`
	UnitPrice     *decimal.Decimal `json:"unit_price" binding:"required" swaggertype:"string" example:"185.00"`
	GSTApplicable *bool            `json:"gst_applicable"`
	SortOrder     int              `json:"sort_order"`
}

func (r LineItemRequest) input() billing.LineInput {
	in := billing.LineInput{
		Description:   r.Description,
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     *r.UnitPrice,
		GSTApplicable: true,
		SortOrder:     r.SortOrder,
	}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.GSTApplicable != nil {
		in.GSTApplicable = *r.GSTApplicable
	}
	return in
}

func lineInputs(items []LineItemRequest) []billing.LineInput {
	out := make([]billing.LineInput, len(items))
	for i, it := range items {
		out[i] = it.input()
	}
	return out
}

// LineItemResponse is a priced line
type LineItemResponse struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitPrice     decimal.Decimal `json:"unit_price" swaggertype:"string"`
	GSTApplicable bool            `json:"gst_applicable"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	SortOrder     int             `json:"sort_order"`
}

func toLineItemResponse(id string, f billing.LineFields) LineItemResponse {
	return LineItemResponse{
		ID:            id,
		Description:   f.Description,
		Quantity:      f.Quantity,
		UnitPrice:     f.UnitPrice,
		GSTApplicable: f.GSTApplicable,
		Amount:        f.Amount,
		SortOrder:     f.SortOrder,
	}
}

// CreateInvoiceRequest is the body for creating an invoice
type CreateInvoiceRequest struct {
	OrganizationID string            `json:"organization_id" binding:"required,uuid"`
	IssueDate      *string           `json:"issue_date" example:"2026-03-02"`
	LineItems      []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
	InvoiceFields
}

// InvoiceFields are the optional invoice header fields
type InvoiceFields struct {
	ClientID      *string          `json:"client_id" binding:"omitempty,uuid"`
	JobID         *string          `json:"job_id" binding:"omitempty,uuid"`
	DueDate       *string          `json:"due_date" example:"2026-03-16"`
	Notes         *string          `json:"notes"`
	InternalNotes *string          `json:"internal_notes"`
	GSTRate       *decimal.Decimal `json:"gst_rate" swaggertype:"string" example:"0.10"`
}

// UpdateInvoiceRequest is a partial invoice header update
type UpdateInvoiceRequest struct {
	IssueDate *string `json:"issue_date"`
	Status    *string `json:"status" binding:"omitempty,oneof=draft sent partially_paid paid cancelled"`
	InvoiceFields
}

func (f InvoiceFields) patch() (billing.InvoicePatch, error) {
	p := billing.InvoicePatch{Notes: f.Notes, InternalNotes: f.InternalNotes, GSTRate: f.GSTRate}
	var err error
	if p.ClientID, err = optionalUUID("client_id", f.ClientID); err != nil {
		return p, err
	}
	if p.JobID, err = optionalUUID("job_id", f.JobID); err != nil {
		return p, err
	}
	if p.DueDate, err = optionalDate("due_date", f.DueDate); err != nil {
		return p, err
	}
	return p, nil
}

func (r UpdateInvoiceRequest) patch() (billing.InvoicePatch, error) {
	p, err := r.InvoiceFields.patch()
	if err != nil {
		return p, err
	}
	if p.IssueDate, err = optionalDate("issue_date", r.IssueDate); err != nil {
		return p, err
	}
	if r.Status != nil {
		s := billing.InvoiceStatus(*r.Status)
		p.Status = &s
	}
	return p, nil
}

// RecordPaymentRequest records money received against an invoice
type RecordPaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"250.00"`
	PaymentDate *string          `json:"payment_date" example:"2026-03-05"`
	Method      string           `json:"method" binding:"omitempty,oneof=bank_transfer card cash cheque other"`
	Reference   string           `json:"reference" binding:"max=255"`
}

// SendInvoiceRequest names the recipient; the client's email is used when empty
type SendInvoiceRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

// PaymentResponse is a payment received against an invoice
type PaymentResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentDate string          `json:"payment_date"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	CreatedAt   string          `json:"created_at"`
}

func toPaymentResponses(ps []billing.InvoicePayment) []PaymentResponse {
	out := make([]PaymentResponse, len(ps))
	for i := range ps {
		p := &ps[i]
		out[i] = PaymentResponse{
			ID:          p.ID.String(),
			Amount:      p.Amount,
			PaymentDate: formatDate(p.PaymentDate),
			Method:      string(p.Method),
			Reference:   p.Reference,
			CreatedAt:   *formatTime(&p.CreatedAt),
		}
	}
	return out
}

// invoiceDocument is the part of an invoice a client may see
type invoiceDocument struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	Status        string             `json:"status" enums:"draft,sent,partially_paid,paid,cancelled"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Notes         string             `json:"notes"`
	GSTRate       decimal.Decimal    `json:"gst_rate" swaggertype:"string"`
	Subtotal      decimal.Decimal    `json:"subtotal" swaggertype:"string"`
	GSTAmount     decimal.Decimal    `json:"gst_amount" swaggertype:"string"`
	TotalAmount   decimal.Decimal    `json:"total_amount" swaggertype:"string"`
	AmountPaid    decimal.Decimal    `json:"amount_paid" swaggertype:"string"`
	SentAt        *string            `json:"sent_at"`
	PaidAt        *string            `json:"paid_at"`
	LineItems     []LineItemResponse `json:"line_items"`
	Payments      []PaymentResponse  `json:"payments"`
}

func toInvoiceDocument(inv *billing.Invoice) invoiceDocument {
	lines := make([]LineItemResponse, len(inv.LineItems))
	for i := range inv.LineItems {
		lines[i] = toLineItemResponse(inv.LineItems[i].ID.String(), inv.LineItems[i].LineFields)
	}
	return invoiceDocument{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssueDate:     formatDate(inv.IssueDate),
		DueDate:       formatDate(inv.DueDate),
		Notes:         inv.Notes,
		GSTRate:       inv.GSTRate,
		Subtotal:      inv.Subtotal,
		GSTAmount:     inv.GSTAmount,
		TotalAmount:   inv.TotalAmount,
		AmountPaid:    inv.AmountPaid,
		SentAt:        formatTime(inv.SentAt),
		PaidAt:        formatTime(inv.PaidAt),
		LineItems:     lines,
		Payments:      toPaymentResponses(inv.Payments),
	}
}

// InvoiceResponse is an invoice as seen by the organization
// @Description Invoice
type InvoiceResponse struct {
	invoiceDocument
	OrganizationID string  `json:"organization_id"`
	ClientID       *string `json:"client_id"`
	JobID          *string `json:"job_id"`
	QuoteID        *string `json:"quote_id"`
	InternalNotes  string  `json:"internal_notes"`
	PublicToken    string  `json:"public_token"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		invoiceDocument: toInvoiceDocument(inv),
		OrganizationID:  inv.OrganizationID.String(),
		ClientID:        uuidString(inv.ClientID),
		JobID:           uuidString(inv.JobID),
		QuoteID:         uuidString(inv.QuoteID),
		InternalNotes:   inv.InternalNotes,
		PublicToken:     inv.PublicToken,
		CreatedBy:       inv.CreatedBy.String(),
		CreatedAt:       *formatTime(&inv.CreatedAt),
		UpdatedAt:       *formatTime(&inv.UpdatedAt),
	}
}

// CreateQuoteRequest is the body for creating a quote
type CreateQuoteRequest struct {
	OrganizationID string            `json:"organization_id" binding:"required,uuid"`
	Title          string            `json:"title" binding:"max=255" example:"Bathroom refit"`
	IssueDate      *string           `json:"issue_date"`
	LineItems      []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
	QuoteFields
}

// QuoteFields are the optional quote header fields
type QuoteFields struct {
	ClientID          *string          `json:"client_id" binding:"omitempty,uuid"`
	JobID             *string          `json:"job_id" binding:"omitempty,uuid"`
	ValidUntil        *string          `json:"valid_until"`
	Notes             *string          `json:"notes"`
	InternalNotes     *string          `json:"internal_notes"`
	GSTRate           *decimal.Decimal `json:"gst_rate" swaggertype:"string"`
	DepositPercentage *decimal.Decimal `json:"deposit_percentage" swaggertype:"string" example:"20"`
}

// UpdateQuoteRequest is a partial quote header update
type UpdateQuoteRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=255"`
	Status *string `json:"status" binding:"omitempty,oneof=draft sent accepted declined expired"`
	QuoteFields
}

func (f QuoteFields) patch() (billing.QuotePatch, error) {
	p := billing.QuotePatch{
		Notes:             f.Notes,
		InternalNotes:     f.InternalNotes,
		GSTRate:           f.GSTRate,
		DepositPercentage: f.DepositPercentage,
	}
	var err error
	if p.ClientID, err = optionalUUID("client_id", f.ClientID); err != nil {
		return p, err
	}
	if p.JobID, err = optionalUUID("job_id", f.JobID); err != nil {
		return p, err
	}
	if p.ValidUntil, err = optionalDate("valid_until", f.ValidUntil); err != nil {
		return p, err
	}
	return p, nil
}

func (r UpdateQuoteRequest) patch() (billing.QuotePatch, error) {
	p, err := r.QuoteFields.patch()
	if err != nil {
		return p, err
	}
	p.Title = r.Title
	if r.Status != nil {
		s := billing.QuoteStatus(*r.Status)
		p.Status = &s
	}
	return p, nil
}

// quoteDocument is the part of a quote a client may see
type quoteDocument struct {
	ID                string             `json:"id"`
	QuoteNumber       string             `json:"quote_number"`
	Title             string             `json:"title"`
	Status            string             `json:"status" enums:"draft,sent,accepted,declined,expired,converted"`
	IssueDate         string             `json:"issue_date"`
	ValidUntil        string             `json:"valid_until"`
	Notes             string             `json:"notes"`
	GSTRate           decimal.Decimal    `json:"gst_rate" swaggertype:"string"`
	Subtotal          decimal.Decimal    `json:"subtotal" swaggertype:"string"`
	GSTAmount         decimal.Decimal    `json:"gst_amount" swaggertype:"string"`
	TotalAmount       decimal.Decimal    `json:"total_amount" swaggertype:"string"`
	DepositPercentage decimal.Decimal    `json:"deposit_percentage" swaggertype:"string"`
	LineItems         []LineItemResponse `json:"line_items"`
}

func toQuoteDocument(q *billing.Quote) quoteDocument {
	lines := make([]LineItemResponse, len(q.LineItems))
	for i := range q.LineItems {
		lines[i] = toLineItemResponse(q.LineItems[i].ID.String(), q.LineItems[i].LineFields)
	}
	return quoteDocument{
		ID:                q.ID.String(),
		QuoteNumber:       q.QuoteNumber,
		Title:             q.Title,
		Status:            string(q.Status),
		IssueDate:         formatDate(q.IssueDate),
		ValidUntil:        formatDate(q.ValidUntil),
		Notes:             q.Notes,
		GSTRate:           q.GSTRate,
		Subtotal:          q.Subtotal,
		GSTAmount:         q.GSTAmount,
		TotalAmount:       q.TotalAmount,
		DepositPercentage: q.DepositPercentage,
		LineItems:         lines,
	}
}

// QuoteResponse is a quote as seen by the organization
// @Description Quote
type QuoteResponse struct {
	quoteDocument
	OrganizationID string  `json:"organization_id"`
	ClientID       *string `json:"client_id"`
	JobID          *string `json:"job_id"`
	InvoiceID      *string `json:"invoice_id"`
	InternalNotes  string  `json:"internal_notes"`
	PublicToken    string  `json:"public_token"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toQuoteResponse(q *billing.Quote) QuoteResponse {
	return QuoteResponse{
		quoteDocument:  toQuoteDocument(q),
		OrganizationID: q.OrganizationID.String(),
		ClientID:       uuidString(q.ClientID),
		JobID:          uuidString(q.JobID),
		InvoiceID:      uuidString(q.InvoiceID),
		InternalNotes:  q.InternalNotes,
		PublicToken:    q.PublicToken,
		CreatedBy:      q.CreatedBy.String(),
		CreatedAt:      *formatTime(&q.CreatedAt),
		UpdatedAt:      *formatTime(&q.UpdatedAt),
	}
}

// PublicOrganization is the issuer's contact block
type PublicOrganization struct {
	Name        string `json:"name"`
	ABN         string `json:"abn"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LogoURL     string `json:"logo_url"`
	BankDetails string `json:"bank_details"`
}

// PublicClient is the recipient block
type PublicClient struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func toPublicParties(org *identity.Organization, cl *client.Client) (PublicOrganization, *PublicClient) {
	po := PublicOrganization{
		Name:        org.Name,
		ABN:         org.ABN,
		Email:       org.Email,
		Phone:       org.Phone,
		Address:     org.Address,
		LogoURL:     org.LogoURL,
		BankDetails: org.BankDetails,
	}
	if cl == nil {
		return po, nil
	}
	return po, &PublicClient{Name: cl.Name, Email: cl.Email, Address: cl.Address}
}

// PublicInvoiceResponse is an invoice opened through its public link
// @Description Invoice as shown to its client
type PublicInvoiceResponse struct {
	Invoice          invoiceDocument    `json:"invoice"`
	Organization     PublicOrganization `json:"organization"`
	Client           *PublicClient      `json:"client"`
	AmountPaid       decimal.Decimal    `json:"amount_paid" swaggertype:"string"`
	RemainingBalance decimal.Decimal    `json:"remaining_balance" swaggertype:"string"`
	IsOverdue        bool               `json:"is_overdue"`
}

func toPublicInvoiceResponse(p *appbilling.PublicInvoice) PublicInvoiceResponse {
	org, cl := toPublicParties(p.Organization, p.Client)
	return PublicInvoiceResponse{
		Invoice:          toInvoiceDocument(p.Invoice),
		Organization:     org,
		Client:           cl,
		AmountPaid:       p.Invoice.AmountPaid,
		RemainingBalance: p.RemainingBalance,
		IsOverdue:        p.IsOverdue,
	}
}

// PublicQuoteResponse is a quote opened through its public link
// @Description Quote as shown to its client
type PublicQuoteResponse struct {
	Quote         quoteDocument      `json:"quote"`
	Organization  PublicOrganization `json:"organization"`
	Client        *PublicClient      `json:"client"`
	DepositAmount decimal.Decimal    `json:"deposit_amount" swaggertype:"string"`
	IsExpired     bool               `json:"is_expired"`
}

func toPublicQuoteResponse(p *appbilling.PublicQuote) PublicQuoteResponse {
	org, cl := toPublicParties(p.Organization, p.Client)
	return PublicQuoteResponse{
		Quote:         toQuoteDocument(p.Quote),
		Organization:  org,
		Client:        cl,
		DepositAmount: p.DepositAmount,
		IsExpired:     p.IsExpired,
	}
}

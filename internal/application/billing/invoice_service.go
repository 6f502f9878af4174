package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/email"
	"github.com/fieldline/backend/internal/infrastructure/export"
	"github.com/fieldline/backend/internal/infrastructure/printing"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// exportPageLimit bounds an export at 200 rows per page
const exportPageLimit = 50

// InvoiceService manages invoices, their lines and payments
type InvoiceService struct {
	invoices      billing.InvoiceRepository
	clients       client.Repository
	jobs          job.Repository
	orgs          identity.OrganizationRepository
	access        *appidentity.Access
	mailer        email.Sender
	metrics       *telemetry.Metrics
	logger        *zap.Logger
	publicBaseURL string
	now           func() time.Time
}

// InvoiceDeps groups the collaborators of InvoiceService
type InvoiceDeps struct {
	Invoices billing.InvoiceRepository
	Clients  client.Repository
	Jobs     job.Repository
	Orgs     identity.OrganizationRepository
	Access   *appidentity.Access
	Mailer   email.Sender
	Metrics  *telemetry.Metrics
	Logger   *zap.Logger
	// PublicBaseURL prefixes the customer-facing invoice page link
	PublicBaseURL string
}

// NewInvoiceService creates an invoice service
func NewInvoiceService(d InvoiceDeps) *InvoiceService {
	return &InvoiceService{
		invoices:      d.Invoices,
		clients:       d.Clients,
		jobs:          d.Jobs,
		orgs:          d.Orgs,
		access:        d.Access,
		mailer:        d.Mailer,
		metrics:       d.Metrics,
		logger:        d.Logger,
		publicBaseURL: strings.TrimRight(d.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

// List returns one page of the organization's invoices
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[billing.Invoice], error) {
	if _, err := s.access.Require(ctx, q.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	q.Filter.Normalize()
	items, total, err := s.invoices.List(ctx, shared.NewScope(userID, &q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

// Get returns an invoice with lines and payments
func (s *InvoiceService) Get(ctx context.Context, userID, id uuid.UUID) (*billing.Invoice, error) {
	return s.load(ctx, userID, id, identity.CapViewFinancials)
}

func (s *InvoiceService) load(ctx context.Context, userID, id uuid.UUID, need identity.Capability) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, inv.OrganizationID, userID, need); err != nil {
		return nil, err
	}
	return inv, nil
}

// Create adds a draft invoice numbered after the organization's last one.
// GST and payment terms default from the organization.
func (s *InvoiceService) Create(ctx context.Context, userID uuid.UUID, in CreateInvoiceInput) (*billing.Invoice, error) {
	if _, err := s.access.Require(ctx, in.OrganizationID, userID, identity.CapCreateInvoices); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, in.OrganizationID, in.Patch.ClientID, in.Patch.JobID); err != nil {
		return nil, err
	}
	number, err := s.invoices.NextNumber(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	inv, err := billing.NewInvoice(in.OrganizationID, userID, number, in.IssueDate, org.PaymentTerms, organizationGSTRate(org))
	if err != nil {
		return nil, err
	}
	in.Patch.Status = nil
	if err := inv.Apply(in.Patch); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		if _, err := inv.AddLine(l); err != nil {
			return nil, err
		}
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber))
	return inv, nil
}

// Update changes the invoice header, including status transitions
func (s *InvoiceService) Update(ctx context.Context, userID, id uuid.UUID, patch billing.InvoicePatch) (*billing.Invoice, error) {
	return s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		if err := s.checkReferences(ctx, userID, inv.OrganizationID, patch.ClientID, patch.JobID); err != nil {
			return err
		}
		return inv.Apply(patch)
	})
}

// Delete removes an invoice that has no payments recorded
func (s *InvoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	inv, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return err
	}
	if len(inv.Payments) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Remove the payments before deleting the invoice")
	}
	if err := s.invoices.Delete(ctx, inv.OrganizationID, inv.ID); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

// AddLine appends a line item
func (s *InvoiceService) AddLine(ctx context.Context, userID, id uuid.UUID, in billing.LineInput) (*billing.Invoice, error) {
	return s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		_, err := inv.AddLine(in)
		return err
	})
}

// UpdateLine replaces one line item
func (s *InvoiceService) UpdateLine(ctx context.Context, userID, id, lineID uuid.UUID, in billing.LineInput) (*billing.Invoice, error) {
	return s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		_, err := inv.UpdateLine(lineID, in)
		return err
	})
}

// RemoveLine deletes one line item
func (s *InvoiceService) RemoveLine(ctx context.Context, userID, id, lineID uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		return inv.RemoveLine(lineID)
	})
}

// Payments lists the payments recorded against an invoice
func (s *InvoiceService) Payments(ctx context.Context, userID, id uuid.UUID) ([]billing.InvoicePayment, error) {
	inv, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return inv.Payments, nil
}

// RecordPayment adds a payment and returns the updated invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, userID, id uuid.UUID, in billing.PaymentInput) (*billing.Invoice, error) {
	in.RecordedBy = userID
	inv, err := s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		_, err := inv.RecordPayment(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("status", string(inv.Status)))
	return inv, nil
}

// RemovePayment deletes a recorded payment
func (s *InvoiceService) RemovePayment(ctx context.Context, userID, id, paymentID uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, userID, id, func(inv *billing.Invoice) error {
		return inv.RemovePayment(paymentID)
	})
}

func (s *InvoiceService) mutate(ctx context.Context, userID, id uuid.UUID, fn func(*billing.Invoice) error) (*billing.Invoice, error) {
	inv, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// PDF draws the invoice
func (s *InvoiceService) PDF(ctx context.Context, userID, id uuid.UUID) ([]byte, string, error) {
	inv, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.document(ctx, userID, inv)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.render(doc)
	if err != nil {
		return nil, "", err
	}
	return pdf, invoiceFilename(inv), nil
}

// Send issues the invoice and emails it with the PDF attached and a link to
// the public page. to overrides the client's address when set. The invoice
// stays unchanged when the email cannot be delivered.
func (s *InvoiceService) Send(ctx context.Context, userID, id uuid.UUID, to string) (*InvoiceDelivery, error) {
	inv, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, userID, inv)
	if err != nil {
		return nil, err
	}
	to = strings.TrimSpace(to)
	if to == "" && doc.Client != nil {
		to = doc.Client.Email
	}
	if to == "" {
		return nil, shared.InvalidInput("client has no email address; provide to")
	}
	if err := inv.MarkSent(s.now()); err != nil {
		return nil, err
	}

	pdf, err := s.render(doc)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if doc.Client != nil {
		clientName = doc.Client.Name
	}
	html, err := email.RenderInvoiceEmail(email.InvoiceEmail{
		OrganizationName: doc.Organization.Name,
		ClientName:       clientName,
		InvoiceNumber:    inv.InvoiceNumber,
		Total:            printing.FormatMoney(inv.TotalAmount),
		DueDate:          printing.FormatDate(inv.DueDate),
		PublicURL:        doc.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	emailID, err := s.mailer.Send(ctx, email.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, doc.Organization.Name),
		HTML:    html,
		Attachments: []email.Attachment{{
			Filename:    invoiceFilename(inv),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})
	s.metrics.EmailsSent.WithLabelValues("invoice", telemetry.Result(err, "sent", "failed")).Inc()
	if errors.Is(err, email.ErrDisabled) {
		return nil, shared.ErrEmailUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("email invoice: %w", err)
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice sent",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("email_id", emailID))
	return &InvoiceDelivery{Invoice: inv, EmailID: emailID, SentTo: to, PublicURL: doc.PublicURL}, nil
}

// Export writes the organization's invoices matching the filter to a
// spreadsheet, ignoring paging
func (s *InvoiceService) Export(ctx context.Context, userID uuid.UUID, q ListQuery) ([]byte, error) {
	if _, err := s.access.Require(ctx, q.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return nil, err
	}
	scope := shared.NewScope(userID, &q.OrganizationID)

	filter := q.Filter
	filter.PageSize = 200
	invoices, err := collect(func(page int) ([]billing.Invoice, int64, error) {
		filter.Page = page
		return s.invoices.List(ctx, scope, filter)
	})
	if err != nil {
		return nil, err
	}

	clientFilter := shared.Filter{PageSize: 200, Filters: map[string]interface{}{"include_archived": true}}
	clients, err := collect(func(page int) ([]client.Client, int64, error) {
		clientFilter.Page = page
		return s.clients.List(ctx, scope, clientFilter)
	})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	data, err := export.InvoicesXLSX(invoices, names, s.now())
	if err != nil {
		return nil, fmt.Errorf("write invoice export: %w", err)
	}
	s.logger.Info("Invoices exported",
		zap.String("organization_id", q.OrganizationID.String()),
		zap.Int("rows", len(invoices)))
	return data, nil
}

// collect reads pages until the total is reached
func collect[T any](list func(page int) ([]T, int64, error)) ([]T, error) {
	var all []T
	for page := 1; page <= exportPageLimit; page++ {
		items, total, err := list(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || int64(len(all)) >= total {
			break
		}
	}
	return all, nil
}

// PublicURL is the customer-facing page of an invoice
func (s *InvoiceService) PublicURL(inv *billing.Invoice) string {
	return invoicePageURL(s.publicBaseURL, inv)
}

func invoicePageURL(base string, inv *billing.Invoice) string {
	return base + "/public/invoice/" + inv.ID.String() + "?token=" + url.QueryEscape(inv.PublicToken)
}

func (s *InvoiceService) document(ctx context.Context, userID uuid.UUID, inv *billing.Invoice) (printing.InvoiceDocument, error) {
	org, err := s.orgs.FindByID(ctx, inv.OrganizationID)
	if err != nil {
		return printing.InvoiceDocument{}, err
	}
	doc := printing.InvoiceDocument{Invoice: inv, Organization: org, PublicURL: s.PublicURL(inv), Today: s.now()}
	if inv.ClientID != nil {
		c, err := s.clients.FindByID(ctx, shared.NewScope(userID, nil), *inv.ClientID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return printing.InvoiceDocument{}, err
		}
		doc.Client = c
	}
	return doc, nil
}

func (s *InvoiceService) render(doc printing.InvoiceDocument) ([]byte, error) {
	start := time.Now()
	pdf, err := printing.InvoicePDF(doc)
	s.metrics.DocumentsRender.WithLabelValues("invoice").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to draw invoice", zap.String("invoice_id", doc.Invoice.ID.String()), zap.Error(err))
		return nil, err
	}
	return pdf, nil
}

func (s *InvoiceService) checkReferences(ctx context.Context, userID, orgID uuid.UUID, clientID, jobID *uuid.UUID) error {
	return checkReferences(ctx, s.clients, s.jobs, shared.NewScope(userID, &orgID), clientID, jobID)
}

func checkReferences(ctx context.Context, clients client.Repository, jobs job.Repository, scope shared.Scope, clientID, jobID *uuid.UUID) error {
	if clientID != nil {
		if _, err := clients.FindByID(ctx, scope, *clientID); err != nil {
			return referenceError(err, "client_id")
		}
	}
	if jobID != nil {
		if _, err := jobs.FindByID(ctx, scope, *jobID); err != nil {
			return referenceError(err, "job_id")
		}
	}
	return nil
}

func referenceError(err error, field string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidInput(field + " does not belong to this organization")
	}
	return err
}

// organizationGSTRate is the rate new documents start with
func organizationGSTRate(org *identity.Organization) decimal.Decimal {
	if !org.GSTRegistered {
		return decimal.Zero
	}
	return org.DefaultGSTRate
}

func invoiceFilename(inv *billing.Invoice) string {
	return "invoice-" + inv.InvoiceNumber + ".pdf"
}

package billing

import (
	"context"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService manages quotes and their conversion into invoices
type QuoteService struct {
	quotes   billing.QuoteRepository
	invoices billing.InvoiceRepository
	clients  client.Repository
	jobs     job.Repository
	orgs     identity.OrganizationRepository
	access   *appidentity.Access
	logger   *zap.Logger
	now      func() time.Time
}

// NewQuoteService creates a quote service
func NewQuoteService(
	quotes billing.QuoteRepository,
	invoices billing.InvoiceRepository,
	clients client.Repository,
	jobs job.Repository,
	orgs identity.OrganizationRepository,
	access *appidentity.Access,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quotes:   quotes,
		invoices: invoices,
		clients:  clients,
		jobs:     jobs,
		orgs:     orgs,
		access:   access,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns one page of the organization's quotes
func (s *QuoteService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[billing.Quote], error) {
	if _, err := s.access.Require(ctx, q.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return shared.Paginated[billing.Quote]{}, err
	}
	q.Filter.Normalize()
	items, total, err := s.quotes.List(ctx, shared.NewScope(userID, &q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[billing.Quote]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

// Get returns a quote with its lines
func (s *QuoteService) Get(ctx context.Context, userID, id uuid.UUID) (*billing.Quote, error) {
	return s.load(ctx, userID, id, identity.CapViewFinancials)
}

func (s *QuoteService) load(ctx context.Context, userID, id uuid.UUID, need identity.Capability) (*billing.Quote, error) {
	q, err := s.quotes.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, q.OrganizationID, userID, need); err != nil {
		return nil, err
	}
	return q, nil
}

// Create adds a draft quote
func (s *QuoteService) Create(ctx context.Context, userID uuid.UUID, in CreateQuoteInput) (*billing.Quote, error) {
	if _, err := s.access.Require(ctx, in.OrganizationID, userID, identity.CapCreateInvoices); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	scope := shared.NewScope(userID, &in.OrganizationID)
	if err := checkReferences(ctx, s.clients, s.jobs, scope, in.Patch.ClientID, in.Patch.JobID); err != nil {
		return nil, err
	}
	number, err := s.quotes.NextNumber(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	q, err := billing.NewQuote(in.OrganizationID, userID, number, in.Title, in.IssueDate, organizationGSTRate(org))
	if err != nil {
		return nil, err
	}
	in.Patch.Title, in.Patch.Status = nil, nil
	if err := q.Apply(in.Patch); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		if _, err := q.AddLine(l); err != nil {
			return nil, err
		}
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("Quote created",
		zap.String("quote_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber))
	return q, nil
}

// Update changes the quote header, including accept and decline
func (s *QuoteService) Update(ctx context.Context, userID, id uuid.UUID, patch billing.QuotePatch) (*billing.Quote, error) {
	return s.mutate(ctx, userID, id, func(q *billing.Quote) error {
		scope := shared.NewScope(userID, &q.OrganizationID)
		if err := checkReferences(ctx, s.clients, s.jobs, scope, patch.ClientID, patch.JobID); err != nil {
			return err
		}
		return q.Apply(patch)
	})
}

// Delete removes a quote that has not become an invoice
func (s *QuoteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	q, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return err
	}
	if q.Status == billing.QuoteConverted {
		return shared.NewDomainError("INVALID_STATE", "Converted quotes cannot be deleted")
	}
	return s.quotes.Delete(ctx, q.OrganizationID, q.ID)
}

func (s *QuoteService) AddLine(ctx context.Context, userID, id uuid.UUID, in billing.LineInput) (*billing.Quote, error) {
	return s.mutate(ctx, userID, id, func(q *billing.Quote) error {
		_, err := q.AddLine(in)
		return err
	})
}

func (s *QuoteService) UpdateLine(ctx context.Context, userID, id, lineID uuid.UUID, in billing.LineInput) (*billing.Quote, error) {
	return s.mutate(ctx, userID, id, func(q *billing.Quote) error {
		_, err := q.UpdateLine(lineID, in)
		return err
	})
}

func (s *QuoteService) RemoveLine(ctx context.Context, userID, id, lineID uuid.UUID) (*billing.Quote, error) {
	return s.mutate(ctx, userID, id, func(q *billing.Quote) error {
		return q.RemoveLine(lineID)
	})
}

func (s *QuoteService) mutate(ctx context.Context, userID, id uuid.UUID, fn func(*billing.Quote) error) (*billing.Quote, error) {
	q, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Convert turns the quote into a draft invoice carrying its lines. Both rows
// are written in one transaction.
func (s *QuoteService) Convert(ctx context.Context, userID, id uuid.UUID) (*billing.Invoice, error) {
	q, err := s.load(ctx, userID, id, identity.CapCreateInvoices)
	if err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	number, err := s.invoices.NextNumber(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	inv, err := q.ConvertToInvoice(userID, number, s.now(), org.PaymentTerms)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.SaveConversion(ctx, q, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Quote converted",
		zap.String("quote_id", q.ID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber))
	return inv, nil
}

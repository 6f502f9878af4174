package billing

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicService serves documents to clients holding their public token.
// Every failure looks like a missing document so tokens cannot be probed.
type PublicService struct {
	invoices      billing.InvoiceRepository
	quotes        billing.QuoteRepository
	clients       client.Repository
	orgs          identity.OrganizationRepository
	logger        *zap.Logger
	publicBaseURL string
	now           func() time.Time
}

// NewPublicService creates a public document service
func NewPublicService(
	invoices billing.InvoiceRepository,
	quotes billing.QuoteRepository,
	clients client.Repository,
	orgs identity.OrganizationRepository,
	publicBaseURL string,
	logger *zap.Logger,
) *PublicService {
	return &PublicService{
		invoices:      invoices,
		quotes:        quotes,
		clients:       clients,
		orgs:          orgs,
		logger:        logger,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Invoice returns the invoice holding token. A non-nil id must match too.
func (s *PublicService) Invoice(ctx context.Context, token string, id *uuid.UUID) (*PublicInvoice, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, shared.NotFound("Invoice")
	}
	inv, err := s.invoices.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, hide(err, "Invoice")
	}
	if !tokenMatches(inv.PublicToken, token) || (id != nil && inv.ID != *id) || !inv.IsDisclosable() {
		return nil, shared.NotFound("Invoice")
	}
	org, c, err := s.parties(ctx, inv.OrganizationID, inv.ClientID)
	if err != nil {
		return nil, err
	}
	return &PublicInvoice{
		Invoice:          inv,
		Organization:     org,
		Client:           c,
		RemainingBalance: inv.RemainingBalance(),
		IsOverdue:        inv.IsOverdue(s.now()),
	}, nil
}

// Quote returns the quote holding token. A non-nil id must match too.
func (s *PublicService) Quote(ctx context.Context, token string, id *uuid.UUID) (*PublicQuote, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, shared.NotFound("Quote")
	}
	q, err := s.quotes.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, hide(err, "Quote")
	}
	if !tokenMatches(q.PublicToken, token) || (id != nil && q.ID != *id) || !q.IsDisclosable() {
		return nil, shared.NotFound("Quote")
	}
	org, c, err := s.parties(ctx, q.OrganizationID, q.ClientID)
	if err != nil {
		return nil, err
	}
	return &PublicQuote{
		Quote:         q,
		Organization:  org,
		Client:        c,
		DepositAmount: q.DepositAmount(),
		IsExpired:     q.IsExpired(s.now()),
	}, nil
}

// InvoicePage renders the server-side invoice page
func (s *PublicService) InvoicePage(ctx context.Context, id uuid.UUID, token string) (string, error) {
	pub, err := s.Invoice(ctx, token, &id)
	if err != nil {
		return "", err
	}
	return printing.InvoiceHTML(printing.InvoiceDocument{
		Invoice:      pub.Invoice,
		Organization: pub.Organization,
		Client:       pub.Client,
		PublicURL:    invoicePageURL(s.publicBaseURL, pub.Invoice),
		Today:        s.now(),
	})
}

func (s *PublicService) parties(ctx context.Context, orgID uuid.UUID, clientID *uuid.UUID) (*identity.Organization, *client.Client, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	if clientID == nil {
		return org, nil, nil
	}
	c, err := s.clients.FindInOrganization(ctx, orgID, *clientID)
	if errors.Is(err, shared.ErrNotFound) {
		return org, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return org, c, nil
}

func tokenMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func hide(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(resource)
	}
	return err
}

package billing

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence for invoices with their lines and payments
type InvoiceRepository interface {
	// FindByID loads the invoice with lines and payments if the user may see it
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Invoice, error)
	// FindByPublicToken loads exactly the invoice holding the token
	FindByPublicToken(ctx context.Context, token string) (*Invoice, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Invoice, int64, error)
	// Save writes the header and replaces lines and payments in one transaction
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error)
}

// QuoteRepository defines persistence for quotes with their lines
type QuoteRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Quote, error)
	FindByPublicToken(ctx context.Context, token string) (*Quote, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Quote, int64, error)
	Save(ctx context.Context, q *Quote) error
	// SaveConversion persists the converted quote and the new invoice together
	SaveConversion(ctx context.Context, q *Quote, inv *Invoice) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error)
}

package workforce

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository defines persistence for subcontractor payments
type PaymentRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*SubcontractorPayment, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]SubcontractorPayment, int64, error)
	Save(ctx context.Context, p *SubcontractorPayment) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// TradeRateRepository defines persistence for trade rates
type TradeRateRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*TradeRate, error)
	List(ctx context.Context, scope shared.Scope) ([]TradeRate, error)
	// Save writes the rate; a default rate clears the flag on the organization's other rates
	Save(ctx context.Context, r *TradeRate) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

package workforce

import (
	"context"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateRateInput contains the input for adding a trade rate
type CreateRateInput struct {
	OrganizationID uuid.UUID
	Trade          string
	HourlyRate     decimal.Decimal
	Patch          workforce.RatePatch
}

// TradeRateService manages charge-out rates. Members read them; admins
// maintain them.
type TradeRateService struct {
	rates  workforce.TradeRateRepository
	access *appidentity.Access
	logger *zap.Logger
}

// NewTradeRateService creates a trade rate service
func NewTradeRateService(rates workforce.TradeRateRepository, access *appidentity.Access, logger *zap.Logger) *TradeRateService {
	return &TradeRateService{rates: rates, access: access, logger: logger}
}

// List returns the organization's rates, the default first
func (s *TradeRateService) List(ctx context.Context, userID, orgID uuid.UUID) ([]workforce.TradeRate, error) {
	if _, err := s.access.Member(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return s.rates.List(ctx, shared.NewScope(userID, &orgID))
}

func (s *TradeRateService) Create(ctx context.Context, userID uuid.UUID, in CreateRateInput) (*workforce.TradeRate, error) {
	if _, err := s.access.RequireAdmin(ctx, in.OrganizationID, userID); err != nil {
		return nil, err
	}
	r, err := workforce.NewTradeRate(in.OrganizationID, in.Trade, in.HourlyRate)
	if err != nil {
		return nil, err
	}
	in.Patch.Trade, in.Patch.HourlyRate = nil, nil
	if err := r.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Trade rate created", zap.String("trade_rate_id", r.ID.String()), zap.String("trade", r.Trade))
	return r, nil
}

func (s *TradeRateService) Update(ctx context.Context, userID, id uuid.UUID, patch workforce.RatePatch) (*workforce.TradeRate, error) {
	r, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *TradeRateService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.rates.Delete(ctx, r.OrganizationID, r.ID)
}

func (s *TradeRateService) load(ctx context.Context, userID, id uuid.UUID) (*workforce.TradeRate, error) {
	r, err := s.rates.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireAdmin(ctx, r.OrganizationID, userID); err != nil {
		return nil, err
	}
	return r, nil
}

// Package workforce holds subcontractor payouts and the organization's
// trade charge-out rates.
package workforce

import (
	"context"
	"errors"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListQuery selects one organization's records
type ListQuery struct {
	OrganizationID uuid.UUID
	Filter         shared.Filter
}

// CreatePaymentInput contains the input for recording a payout
type CreatePaymentInput struct {
	OrganizationID uuid.UUID
	MemberID       uuid.UUID
	JobID          *uuid.UUID
	Amount         decimal.Decimal
	Description    string
}

// PaymentService tracks money owed to subcontractors. Financial visibility
// is needed throughout; paying out is for admins.
type PaymentService struct {
	payments workforce.PaymentRepository
	members  identity.MemberRepository
	jobs     job.Repository
	access   *appidentity.Access
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a subcontractor payment service
func NewPaymentService(payments workforce.PaymentRepository, members identity.MemberRepository, jobs job.Repository, access *appidentity.Access, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, members: members, jobs: jobs, access: access, logger: logger, now: time.Now}
}

func (s *PaymentService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[workforce.SubcontractorPayment], error) {
	if _, err := s.access.Require(ctx, q.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return shared.Paginated[workforce.SubcontractorPayment]{}, err
	}
	q.Filter.Normalize()
	items, total, err := s.payments.List(ctx, shared.NewScope(userID, &q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[workforce.SubcontractorPayment]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

func (s *PaymentService) Create(ctx context.Context, userID uuid.UUID, in CreatePaymentInput) (*workforce.SubcontractorPayment, error) {
	if _, err := s.access.Require(ctx, in.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return nil, err
	}
	payee, err := s.members.FindByID(ctx, in.OrganizationID, in.MemberID)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && payee.Status == identity.MemberStatusRemoved) {
		return nil, shared.InvalidInput("member_id does not belong to this organization")
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkJob(ctx, userID, in.OrganizationID, in.JobID); err != nil {
		return nil, err
	}
	p, err := workforce.NewSubcontractorPayment(in.OrganizationID, in.MemberID, userID, in.Amount, in.Description)
	if err != nil {
		return nil, err
	}
	p.JobID = in.JobID
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Subcontractor payment recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("member_id", p.MemberID.String()),
		zap.String("amount", p.Amount.StringFixed(2)))
	return p, nil
}

func (s *PaymentService) Update(ctx context.Context, userID, id uuid.UUID, patch workforce.PaymentPatch) (*workforce.SubcontractorPayment, error) {
	p, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkJob(ctx, userID, p.OrganizationID, patch.JobID); err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes an unpaid payment
func (s *PaymentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	if p.Status == workforce.PaymentPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid payments cannot be deleted")
	}
	return s.payments.Delete(ctx, p.OrganizationID, p.ID)
}

// Pay records the payout with the bank reference
func (s *PaymentService) Pay(ctx context.Context, userID, id uuid.UUID, reference string) (*workforce.SubcontractorPayment, error) {
	p, err := s.payments.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireAdmin(ctx, p.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := p.MarkPaid(reference, s.now()); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Subcontractor paid",
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.Reference))
	return p, nil
}

func (s *PaymentService) load(ctx context.Context, userID, id uuid.UUID) (*workforce.SubcontractorPayment, error) {
	p, err := s.payments.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, p.OrganizationID, userID, identity.CapViewFinancials); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) checkJob(ctx context.Context, userID, orgID uuid.UUID, jobID *uuid.UUID) error {
	if jobID == nil {
		return nil
	}
	_, err := s.jobs.FindByID(ctx, shared.NewScope(userID, &orgID), *jobID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidInput("job_id does not belong to this organization")
	}
	return err
}

package workforce

import (
	"context"
	"testing"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaymentService(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID
	members := new(testutil.MockMemberRepository)
	payments := new(testutil.MockPaymentRepository)
	jobs := new(testutil.MockJobRepository)
	members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)
	svc := NewPaymentService(payments, members, jobs, appidentity.NewAccess(members), zap.NewNop())
	paidAt := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return paidAt }

	sub, err := identity.NewInvitedMember(orgID, uuid.New(), identity.RoleSubcontractor)
	require.NoError(t, err)
	sub.Activate()
	members.On("FindByID", ctx, orgID, sub.ID).Return(sub, nil)
	payments.On("Save", ctx, mock.AnythingOfType("*workforce.SubcontractorPayment")).Return(nil)

	p, err := svc.Create(ctx, tn.User.ID, CreatePaymentInput{OrganizationID: orgID, MemberID: sub.ID, Amount: decimal.RequireFromString("480.005"), Description: "Rough-in"})
	require.NoError(t, err)
	assert.Equal(t, workforce.PaymentPending, p.Status)
	assert.Equal(t, "480.01", p.Amount.StringFixed(2))

	t.Run("unknown payee", func(t *testing.T) {
		stranger := uuid.New()
		members.On("FindByID", ctx, orgID, stranger).Return(nil, shared.NotFound("Member"))
		_, err := svc.Create(ctx, tn.User.ID, CreatePaymentInput{OrganizationID: orgID, MemberID: stranger, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	payments.On("FindByID", ctx, shared.NewScope(tn.User.ID, nil), p.ID).Return(p, nil)

	t.Run("staff without financials", func(t *testing.T) {
		staff, m := tn.NewStaffMember(t, identity.CapCreateJobs)
		members.On("FindActive", ctx, orgID, staff.ID).Return(m, nil)
		payments.On("FindByID", ctx, shared.NewScope(staff.ID, nil), p.ID).Return(p, nil)
		_, err := svc.Pay(ctx, staff.ID, p.ID, "EFT-1")
		assert.ErrorIs(t, err, shared.ErrForbidden)
		_, err = svc.List(ctx, staff.ID, ListQuery{OrganizationID: orgID})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	paid, err := svc.Pay(ctx, tn.User.ID, p.ID, " EFT-20260306 ")
	require.NoError(t, err)
	assert.Equal(t, workforce.PaymentPaid, paid.Status)
	assert.Equal(t, "EFT-20260306", paid.Reference)
	assert.Equal(t, paidAt, *paid.PaidAt)

	_, err = svc.Pay(ctx, tn.User.ID, p.ID, "again")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, svc.Delete(ctx, tn.User.ID, p.ID), shared.ErrInvalidState)
}

func TestTradeRateService(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID
	members := new(testutil.MockMemberRepository)
	rates := new(testutil.MockTradeRateRepository)
	members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)
	svc := NewTradeRateService(rates, appidentity.NewAccess(members), zap.NewNop())

	yes := true
	fee := decimal.NewFromInt(80)
	rates.On("Save", ctx, mock.AnythingOfType("*workforce.TradeRate")).Return(nil)
	r, err := svc.Create(ctx, tn.User.ID, CreateRateInput{
		OrganizationID: orgID,
		Trade:          "Electrician",
		HourlyRate:     decimal.NewFromInt(110),
		Patch:          workforce.RatePatch{CallOutFee: &fee, IsDefault: &yes},
	})
	require.NoError(t, err)
	assert.True(t, r.IsDefault)
	assert.Equal(t, "80", r.CallOutFee.String())

	staff, m := tn.NewStaffMember(t)
	members.On("FindActive", ctx, orgID, staff.ID).Return(m, nil)
	rates.On("List", ctx, shared.NewScope(staff.ID, &orgID)).Return([]workforce.TradeRate{*r}, nil)

	list, err := svc.List(ctx, staff.ID, orgID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Create(ctx, staff.ID, CreateRateInput{OrganizationID: orgID, Trade: "Plumber", HourlyRate: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	rates.On("FindByID", ctx, shared.NewScope(staff.ID, nil), r.ID).Return(r, nil)
	assert.ErrorIs(t, svc.Delete(ctx, staff.ID, r.ID), shared.ErrForbidden)
}

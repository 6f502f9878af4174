package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/messaging"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/cache"
	"github.com/fieldline/backend/internal/infrastructure/sms"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/fieldline/backend/tests/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "whsec-test"

type fixture struct {
	tn       testutil.Tenant
	messages *testutil.MockSMSRepository
	sender   *testutil.MockSMSSender
	orgs     *testutil.MockOrganizationRepository
	members  *testutil.MockMemberRepository
	metrics  *telemetry.Metrics
	svc      *SMSService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		tn:       testutil.NewOwnerTenant(t),
		messages: new(testutil.MockSMSRepository),
		sender:   new(testutil.MockSMSSender),
		orgs:     new(testutil.MockOrganizationRepository),
		members:  new(testutil.MockMemberRepository),
		metrics:  telemetry.NewMetrics(),
	}
	f.members.On("FindActive", mock.Anything, f.tn.Organization.ID, f.tn.User.ID).Return(f.tn.Member, nil)
	f.svc = NewSMSService(SMSDeps{
		Messages:      f.messages,
		Sender:        f.sender,
		Orgs:          f.orgs,
		Clients:       new(testutil.MockClientRepository),
		Jobs:          new(testutil.MockJobRepository),
		Access:        appidentity.NewAccess(f.members),
		Webhooks:      cache.NewInMemoryIdempotencyStore(),
		WebhookSecret: secret,
		Metrics:       f.metrics,
		Logger:        zap.NewNop(),
	})
	return f
}

func TestSMSService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("charges segments", func(t *testing.T) {
		f := newFixture(t)
		orgID := f.tn.Organization.ID
		f.tn.Organization.SMSCredits = 8
		f.orgs.On("ConsumeSMSCredits", ctx, orgID, 1).Return(true, nil)
		f.orgs.On("FindByID", ctx, orgID).Return(f.tn.Organization, nil)
		f.sender.On("Send", ctx, "+61412345678", "On our way").Return("gw-1", nil)
		f.messages.On("Save", ctx, mock.AnythingOfType("*messaging.SMSMessage")).Return(nil)

		res, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: orgID, To: "0412 345 678", Body: "On our way"})
		require.NoError(t, err)
		assert.Equal(t, messaging.SMSSent, res.Message.Status)
		assert.Equal(t, "gw-1", res.Message.ProviderMessageID)
		assert.Equal(t, 8, res.CreditsRemaining)
		assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SMSMessages.WithLabelValues("sent")))
	})

	t.Run("accepted message survives a failed write", func(t *testing.T) {
		f := newFixture(t)
		orgID := f.tn.Organization.ID
		f.tn.Organization.SMSCredits = 7
		f.orgs.On("ConsumeSMSCredits", ctx, orgID, 1).Return(true, nil)
		f.orgs.On("FindByID", ctx, orgID).Return(f.tn.Organization, nil)
		f.sender.On("Send", ctx, mock.Anything, mock.Anything).Return("gw-2", nil)
		f.messages.On("Save", ctx, mock.AnythingOfType("*messaging.SMSMessage")).Return(errors.New("connection reset"))

		res, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: orgID, To: "+61412345678", Body: "Running late"})
		require.NoError(t, err)
		assert.Equal(t, messaging.SMSSent, res.Message.Status)
		assert.Equal(t, "gw-2", res.Message.ProviderMessageID)
		assert.Equal(t, 7, res.CreditsRemaining)
		f.orgs.AssertNotCalled(t, "AddSMSCredits", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient credits", func(t *testing.T) {
		f := newFixture(t)
		orgID := f.tn.Organization.ID
		f.orgs.On("ConsumeSMSCredits", ctx, orgID, 1).Return(false, nil)

		_, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: orgID, To: "+61412345678", Body: "Hi"})
		assert.ErrorIs(t, err, shared.ErrInsufficientCredits)
		f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		f.messages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("gateway failure refunds", func(t *testing.T) {
		f := newFixture(t)
		orgID := f.tn.Organization.ID
		f.orgs.On("ConsumeSMSCredits", ctx, orgID, 1).Return(true, nil)
		f.orgs.On("AddSMSCredits", ctx, orgID, 1).Return(5, nil)
		f.sender.On("Send", ctx, mock.Anything, mock.Anything).Return("", &sms.GatewayError{StatusCode: 500})
		var saved *messaging.SMSMessage
		f.messages.On("Save", ctx, mock.AnythingOfType("*messaging.SMSMessage")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*messaging.SMSMessage) }).
			Return(nil)

		_, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: orgID, To: "+61412345678", Body: "Hi"})
		assert.ErrorIs(t, err, ErrSMSFailed)
		require.NotNil(t, saved)
		assert.Equal(t, messaging.SMSFailed, saved.Status)
		f.orgs.AssertCalled(t, "AddSMSCredits", ctx, orgID, 1)
	})

	t.Run("gateway disabled", func(t *testing.T) {
		f := newFixture(t)
		orgID := f.tn.Organization.ID
		f.orgs.On("ConsumeSMSCredits", ctx, orgID, 1).Return(true, nil)
		f.orgs.On("AddSMSCredits", ctx, orgID, 1).Return(5, nil)
		f.sender.On("Send", ctx, mock.Anything, mock.Anything).Return("", sms.ErrNotConfigured)
		f.messages.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: orgID, To: "+61412345678", Body: "Hi"})
		assert.ErrorIs(t, err, ErrSMSUnavailable)
	})

	t.Run("bad number", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Send(ctx, f.tn.User.ID, SendInput{OrganizationID: f.tn.Organization.ID, To: "12", Body: "Hi"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestSMSService_TopUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID
	f.orgs.On("AddSMSCredits", ctx, orgID, 500).Return(510, nil)

	balance, err := f.svc.TopUp(ctx, f.tn.User.ID, orgID, 500)
	require.NoError(t, err)
	assert.Equal(t, 510, balance)

	_, err = f.svc.TopUp(ctx, f.tn.User.ID, orgID, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	staff, member := f.tn.NewStaffMember(t)
	f.members.On("FindActive", ctx, orgID, staff.ID).Return(member, nil)
	_, err = f.svc.TopUp(ctx, staff.ID, orgID, 10)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSMSService_HandleDeliveryReport(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"event_id":"evt-1","message_id":"gw-9","status":"delivered","timestamp":"2026-03-02T10:00:00Z"}`)
	sig := sms.Sign(secret, body)

	t.Run("applies once", func(t *testing.T) {
		f := newFixture(t)
		msg, err := messaging.NewSMSMessage(f.tn.Organization.ID, f.tn.User.ID, "+61412345678", "Hi")
		require.NoError(t, err)
		msg.MarkSent("gw-9")
		f.messages.On("FindByProviderID", ctx, "gw-9").Return(msg, nil).Once()
		f.messages.On("Save", ctx, msg).Return(nil).Once()

		outcome, err := f.svc.HandleDeliveryReport(ctx, body, "sha256="+sig)
		require.NoError(t, err)
		assert.Equal(t, WebhookApplied, outcome)
		assert.Equal(t, messaging.SMSDelivered, msg.Status)
		require.NotNil(t, msg.DeliveredAt)
		assert.True(t, msg.DeliveredAt.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))

		outcome, err = f.svc.HandleDeliveryReport(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, WebhookDuplicate, outcome)
		assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SMSWebhooks.WithLabelValues(WebhookDuplicate)))
		f.messages.AssertExpectations(t)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newFixture(t)
		outcome, err := f.svc.HandleDeliveryReport(ctx, body, sms.Sign("other", body))
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		assert.Equal(t, WebhookRejected, outcome)
	})

	t.Run("unknown message", func(t *testing.T) {
		f := newFixture(t)
		f.messages.On("FindByProviderID", ctx, "gw-9").Return(nil, shared.NotFound("SMS message"))
		outcome, err := f.svc.HandleDeliveryReport(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, WebhookIgnored, outcome)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.svc.webhooks = failingStore{}
		_, err := f.svc.HandleDeliveryReport(ctx, body, sig)
		assert.Error(t, err)
	})
}

type failingStore struct{ shared.IdempotencyStore }

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis unavailable")
}

package integration

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name    integration.Provider
	enabled bool
	codes   map[string]integration.Tokens
}

func (p *fakeProvider) Name() integration.Provider { return p.name }
func (p *fakeProvider) Enabled() bool              { return p.enabled }

func (p *fakeProvider) AuthorizeURL(state string) (string, error) {
	return "https://provider.test/authorize?state=" + url.QueryEscape(state), nil
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (integration.Tokens, error) {
	t, ok := p.codes[code]
	if !ok {
		return integration.Tokens{}, errors.New("invalid_grant")
	}
	return t, nil
}

type forgetful struct{ forgotten []uuid.UUID }

func (f *forgetful) Forget(userID uuid.UUID) { f.forgotten = append(f.forgotten, userID) }

type fixture struct {
	tn      testutil.Tenant
	repo    *testutil.MockIntegrationRepository
	members *testutil.MockMemberRepository
	cache   *forgetful
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		tn:      testutil.NewOwnerTenant(t),
		repo:    new(testutil.MockIntegrationRepository),
		members: new(testutil.MockMemberRepository),
		cache:   &forgetful{},
	}
	f.members.On("FindActive", mock.Anything, f.tn.Organization.ID, f.tn.User.ID).Return(f.tn.Member, nil)
	providers := []OAuthProvider{
		&fakeProvider{name: integration.ProviderTradeCalendar, enabled: true, codes: map[string]integration.Tokens{
			"good": {AccessToken: "at-1", RefreshToken: "rt-1", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)},
		}},
		&fakeProvider{name: integration.ProviderAccounting},
	}
	f.svc = NewService(f.repo, providers, f.cache, appidentity.NewAccess(f.members), []byte("state-key"), zap.NewNop())
	return f
}

func stateFrom(t *testing.T, a *Authorization) string {
	u, err := url.Parse(a.URL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestService_ConnectCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID

	auth, err := f.svc.Authorize(ctx, f.tn.User.ID, orgID, integration.ProviderTradeCalendar)
	require.NoError(t, err)
	assert.Equal(t, auth.State, stateFrom(t, auth))

	f.repo.On("FindForUser", ctx, f.tn.User.ID, integration.ProviderTradeCalendar).Return(nil, shared.NotFound("Integration"))
	f.repo.On("Save", ctx, mock.AnythingOfType("*integration.Connection")).Return(nil)

	conn, err := f.svc.Connect(ctx, f.tn.User.ID, ConnectInput{Provider: integration.ProviderTradeCalendar, Code: "good", State: auth.State})
	require.NoError(t, err)
	assert.Equal(t, orgID, conn.OrganizationID)
	assert.Equal(t, "at-1", conn.AccessToken)
	assert.True(t, conn.IsUsable())
	assert.Equal(t, []uuid.UUID{f.tn.User.ID}, f.cache.forgotten)

	t.Run("state of another user", func(t *testing.T) {
		_, err := f.svc.Connect(ctx, uuid.New(), ConnectInput{Provider: integration.ProviderTradeCalendar, Code: "good", State: auth.State})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("tampered state", func(t *testing.T) {
		_, err := f.svc.Connect(ctx, f.tn.User.ID, ConnectInput{Provider: integration.ProviderTradeCalendar, Code: "good", State: "x" + auth.State})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejected code", func(t *testing.T) {
		_, err := f.svc.Connect(ctx, f.tn.User.ID, ConnectInput{Provider: integration.ProviderTradeCalendar, Code: "bad", State: auth.State})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_ProviderUnavailable(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Authorize(context.Background(), f.tn.User.ID, f.tn.Organization.ID, integration.ProviderAccounting)
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = f.svc.Authorize(context.Background(), f.tn.User.ID, f.tn.Organization.ID, "dropbox")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStateSigner(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := stateSigner{key: []byte("k"), now: func() time.Time { return now }}
	st := oauthState{OrganizationID: uuid.New(), UserID: uuid.New(), Provider: integration.ProviderAccounting}

	raw, err := s.sign(st)
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(raw, "+/="))

	got, err := s.verify(raw)
	require.NoError(t, err)
	assert.Equal(t, st.OrganizationID, got.OrganizationID)
	assert.Equal(t, st.UserID, got.UserID)

	_, err = stateSigner{key: []byte("other"), now: s.now}.verify(raw)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	later := stateSigner{key: s.key, now: func() time.Time { return now.Add(stateTTL + time.Second) }}
	_, err = later.verify(raw)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_ListUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID

	mine, err := integration.NewConnection(orgID, f.tn.User.ID, integration.ProviderTradeCalendar, integration.Tokens{AccessToken: "a"})
	require.NoError(t, err)
	theirs, err := integration.NewConnection(orgID, uuid.New(), integration.ProviderTradeCalendar, integration.Tokens{AccessToken: "b"})
	require.NoError(t, err)
	books, err := integration.NewConnection(orgID, uuid.New(), integration.ProviderAccounting, integration.Tokens{AccessToken: "c"})
	require.NoError(t, err)
	f.repo.On("ListForOrganization", ctx, orgID).Return([]integration.Connection{*mine, *theirs, *books}, nil)

	list, err := f.svc.List(ctx, f.tn.User.ID, orgID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, books.ID, list[1].ID)

	f.repo.On("FindByID", ctx, books.ID).Return(books, nil)
	f.repo.On("FindByID", ctx, theirs.ID).Return(theirs, nil)
	f.repo.On("FindByID", ctx, mine.ID).Return(mine, nil)
	f.repo.On("Save", ctx, mock.Anything).Return(nil)

	yes := true
	updated, err := f.svc.Update(ctx, f.tn.User.ID, books.ID, integration.SyncFlags{SyncInvoices: &yes})
	require.NoError(t, err)
	assert.True(t, updated.SyncInvoices)

	_, err = f.svc.Update(ctx, f.tn.User.ID, mine.ID, integration.SyncFlags{SyncInvoices: &yes})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.tn.User.ID, theirs.ID), shared.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, f.tn.User.ID, mine.ID))
	assert.Equal(t, integration.StatusDisconnected, mine.Status)
	assert.Empty(t, mine.AccessToken)
	assert.Contains(t, f.cache.forgotten, f.tn.User.ID)
}

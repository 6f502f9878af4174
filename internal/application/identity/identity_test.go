package identity

import (
	"context"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	users    *testutil.MockUserRepository
	orgs     *testutil.MockOrganizationRepository
	members  *testutil.MockMemberRepository
	sessions *auth.InMemorySessionStore
	revoker  *auth.InMemoryTokenRevoker
	jwt      *auth.JWTService
	access   *Access
}

func newFixture() *fixture {
	f := &fixture{
		users:    new(testutil.MockUserRepository),
		orgs:     new(testutil.MockOrganizationRepository),
		members:  new(testutil.MockMemberRepository),
		sessions: auth.NewInMemorySessionStore(time.Hour),
		revoker:  auth.NewInMemoryTokenRevoker(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-access-secret-with-enough-length",
			RefreshSecret:          "test-refresh-secret-with-enough-length",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "fieldline-test",
			MaxRefreshCount:        3,
		}),
	}
	f.access = NewAccess(f.members)
	return f
}

func (f *fixture) auth() *AuthService {
	return NewAuthService(f.users, f.members, f.orgs, f.sessions, f.jwt, f.revoker, zap.NewNop())
}

func TestAccess(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID

	t.Run("not a member is forbidden", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		f.members.On("FindActive", ctx, orgID, userID).Return(nil, shared.NotFound("Member"))

		_, err := f.access.Member(ctx, orgID, userID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("missing capability", func(t *testing.T) {
		f := newFixture()
		user, staff := tn.NewStaffMember(t)
		f.members.On("FindActive", ctx, orgID, user.ID).Return(staff, nil)

		_, err := f.access.Require(ctx, orgID, user.ID, identity.CapCreateJobs)
		require.ErrorIs(t, err, shared.ErrForbidden)
		assert.Contains(t, err.Error(), "can_create_jobs")

		_, err = f.access.RequireAdmin(ctx, orgID, user.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("owner passes every check", func(t *testing.T) {
		f := newFixture()
		f.members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)

		m, err := f.access.Require(ctx, orgID, tn.User.ID, identity.CapManageTeam)
		require.NoError(t, err)
		assert.Equal(t, tn.Member, m)
		_, err = f.access.RequireAdmin(ctx, orgID, tn.User.ID)
		assert.NoError(t, err)
	})

	t.Run("nil organization", func(t *testing.T) {
		f := newFixture()
		_, err := f.access.Member(ctx, uuid.Nil, tn.User.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestAuthService_WebLogin(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)

	t.Run("valid credentials open a session", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", ctx, "owner@example.com").Return(tn.User, nil)
		f.users.On("Save", ctx, tn.User).Return(nil)

		sess, user, err := f.auth().WebLogin(ctx, LoginInput{Email: "owner@example.com", Password: "correct-horse-1", IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Equal(t, tn.User.ID, user.ID)
		assert.NotNil(t, user.LastLoginAt)

		stored, err := f.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, tn.User.ID, stored.UserID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", ctx, "owner@example.com").Return(tn.User, nil)
		f.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.NotFound("User"))

		_, _, err1 := f.auth().WebLogin(ctx, LoginInput{Email: "owner@example.com", Password: "wrong-password"})
		_, _, err2 := f.auth().WebLogin(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever1"})
		assert.Equal(t, err1, err2)
		var de *shared.DomainError
		require.ErrorAs(t, err1, &de)
		assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
	})

	t.Run("invited users cannot sign in", func(t *testing.T) {
		f := newFixture()
		invited, err := identity.NewInvitedUser("new@example.com", "New")
		require.NoError(t, err)
		f.users.On("FindByEmail", ctx, "new@example.com").Return(invited, nil)

		_, _, err = f.auth().WebLogin(ctx, LoginInput{Email: "new@example.com", Password: "anything1"})
		assert.Error(t, err)
	})
}

func TestAuthService_MobileRefreshLogout(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	f := newFixture()
	svc := f.auth()
	f.users.On("FindByEmail", ctx, "owner@example.com").Return(tn.User, nil)
	f.users.On("FindByID", ctx, tn.User.ID).Return(tn.User, nil)
	f.users.On("Save", ctx, mock.Anything).Return(nil)

	pair, _, err := svc.MobileLogin(ctx, LoginInput{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "rotated refresh tokens are single use")

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	claims, err := f.jwt.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, &auth.Identity{User: tn.User, Method: auth.MethodBearer, Claims: claims}))
	revoked, err := f.revoker.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_LogoutSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	sess, err := f.sessions.Create(ctx, uuid.New(), "test", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, f.auth().Logout(ctx, &auth.Identity{Method: auth.MethodSession, SessionID: sess.ID}))
	_, err = f.sessions.Get(ctx, sess.ID)
	assert.Error(t, err)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	other, err := identity.NewOrganization("Stale Org")
	require.NoError(t, err)

	f := newFixture()
	f.users.On("FindByID", ctx, tn.User.ID).Return(tn.User, nil)
	f.members.On("ListActiveForUser", ctx, tn.User.ID).Return([]identity.OrganizationMember{*tn.Member, *identity.NewOwnerMember(other.ID, tn.User.ID)}, nil)
	f.orgs.On("FindForUser", ctx, tn.User.ID).Return([]identity.Organization{*tn.Organization}, nil)

	profile, err := f.auth().Me(ctx, tn.User.ID)
	require.NoError(t, err)
	require.Len(t, profile.Memberships, 1)
	assert.Equal(t, "Sparks Electrical", profile.Memberships[0].Organization.Name)
}

func TestOrganizationService(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	defaults := OrganizationDefaults{GSTRate: decimal.RequireFromString("0.15"), PaymentTerms: 30}

	t.Run("create applies defaults and owner", func(t *testing.T) {
		f := newFixture()
		svc := NewOrganizationService(f.orgs, f.access, defaults, zap.NewNop())
		f.orgs.On("CreateWithOwner", ctx, mock.Anything, mock.MatchedBy(func(m *identity.OrganizationMember) bool {
			return m.UserID == tn.User.ID && m.Role == identity.RoleOwner
		})).Return(nil)

		org, err := svc.Create(ctx, tn.User.ID, CreateOrganizationInput{Name: " Volt Co ", ABN: "12 345 678 901"})
		require.NoError(t, err)
		assert.Equal(t, "Volt Co", org.Name)
		assert.Equal(t, "12345678901", org.ABN)
		assert.True(t, org.DefaultGSTRate.Equal(decimal.RequireFromString("0.15")))
		assert.Equal(t, 30, org.PaymentTerms)
		f.orgs.AssertExpectations(t)
	})

	t.Run("update requires admin", func(t *testing.T) {
		f := newFixture()
		svc := NewOrganizationService(f.orgs, f.access, defaults, zap.NewNop())
		user, staff := tn.NewStaffMember(t, identity.CapCreateJobs)
		f.members.On("FindActive", ctx, tn.Organization.ID, user.ID).Return(staff, nil)

		name := "Renamed"
		_, err := svc.Update(ctx, user.ID, tn.Organization.ID, identity.OrganizationPatch{Name: &name})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("update by owner", func(t *testing.T) {
		f := newFixture()
		svc := NewOrganizationService(f.orgs, f.access, defaults, zap.NewNop())
		f.members.On("FindActive", ctx, tn.Organization.ID, tn.User.ID).Return(tn.Member, nil)
		f.orgs.On("FindByID", ctx, tn.Organization.ID).Return(tn.Organization, nil)
		f.orgs.On("Save", ctx, tn.Organization).Return(nil)

		terms := 7
		org, err := svc.Update(ctx, tn.User.ID, tn.Organization.ID, identity.OrganizationPatch{PaymentTerms: &terms})
		require.NoError(t, err)
		assert.Equal(t, 7, org.PaymentTerms)
	})
}

func TestMemberService_Invite(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID

	setup := func() (*fixture, *MemberService) {
		f := newFixture()
		f.members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)
		return f, NewMemberService(f.users, f.members, f.access, zap.NewNop())
	}

	t.Run("existing user joins active", func(t *testing.T) {
		f, svc := setup()
		existing, err := identity.NewUser("sparky@example.com", "Sam", "password-123")
		require.NoError(t, err)
		f.users.On("FindByEmail", ctx, "sparky@example.com").Return(existing, nil)
		f.members.On("FindByUser", ctx, orgID, existing.ID).Return(nil, shared.NotFound("Member"))
		f.members.On("Save", ctx, mock.Anything).Return(nil)

		yes := true
		m, err := svc.Invite(ctx, tn.User.ID, orgID, InviteMemberInput{Email: "sparky@example.com", Patch: identity.MemberPatch{CanCreateJobs: &yes}})
		require.NoError(t, err)
		assert.Equal(t, identity.MemberStatusActive, m.Status)
		assert.Equal(t, identity.RoleMember, m.Role)
		assert.True(t, m.CanCreateJobs)
	})

	t.Run("unknown email creates an invited user", func(t *testing.T) {
		f, svc := setup()
		f.users.On("FindByEmail", ctx, "fresh@example.com").Return(nil, shared.NotFound("User"))
		f.users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool { return u.Status == identity.UserStatusInvited })).Return(nil)
		f.members.On("FindByUser", ctx, orgID, mock.Anything).Return(nil, shared.NotFound("Member"))
		f.members.On("Save", ctx, mock.Anything).Return(nil)

		m, err := svc.Invite(ctx, tn.User.ID, orgID, InviteMemberInput{Email: "fresh@example.com", FullName: "Fresh"})
		require.NoError(t, err)
		assert.Equal(t, identity.MemberStatusInvited, m.Status)
		f.users.AssertExpectations(t)
	})

	t.Run("already a member", func(t *testing.T) {
		f, svc := setup()
		user, staff := tn.NewStaffMember(t)
		f.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		f.members.On("FindByUser", ctx, orgID, user.ID).Return(staff, nil)

		_, err := svc.Invite(ctx, tn.User.ID, orgID, InviteMemberInput{Email: user.Email})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("removed member is re-added on the same row", func(t *testing.T) {
		f, svc := setup()
		user, staff := tn.NewStaffMember(t)
		require.NoError(t, staff.Remove())
		f.users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		f.members.On("FindByUser", ctx, orgID, user.ID).Return(staff, nil)
		f.members.On("Save", ctx, mock.Anything).Return(nil)

		m, err := svc.Invite(ctx, tn.User.ID, orgID, InviteMemberInput{Email: user.Email})
		require.NoError(t, err)
		assert.Equal(t, staff.ID, m.ID)
		assert.Equal(t, identity.MemberStatusActive, m.Status)
	})

	t.Run("owner role cannot be invited", func(t *testing.T) {
		f, svc := setup()
		f.users.On("FindByEmail", ctx, "x@example.com").Return(tn.User, nil)
		f.members.On("FindByUser", ctx, orgID, tn.User.ID).Return(nil, shared.NotFound("Member"))

		_, err := svc.Invite(ctx, tn.User.ID, orgID, InviteMemberInput{Email: "x@example.com", Role: identity.RoleOwner})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestMemberService_Remove(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID

	f := newFixture()
	svc := NewMemberService(f.users, f.members, f.access, zap.NewNop())
	f.members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)

	t.Run("owner is protected", func(t *testing.T) {
		f.members.On("FindByID", ctx, orgID, tn.Member.ID).Return(tn.Member, nil).Once()
		err := svc.Remove(ctx, tn.User.ID, orgID, tn.Member.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("soft deletes staff", func(t *testing.T) {
		_, staff := tn.NewStaffMember(t)
		f.members.On("FindByID", ctx, orgID, staff.ID).Return(staff, nil).Once()
		f.members.On("Save", ctx, staff).Return(nil).Once()

		require.NoError(t, svc.Remove(ctx, tn.User.ID, orgID, staff.ID))
		assert.Equal(t, identity.MemberStatusRemoved, staff.Status)
	})

	t.Run("staff without manage team", func(t *testing.T) {
		user, staff := tn.NewStaffMember(t)
		f.members.On("FindActive", ctx, orgID, user.ID).Return(staff, nil)
		err := svc.Remove(ctx, user.ID, orgID, tn.Member.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

package identity

import (
	"context"
	"errors"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles web sessions and mobile tokens
type AuthService struct {
	users    identity.UserRepository
	members  identity.MemberRepository
	orgs     identity.OrganizationRepository
	sessions auth.SessionStore
	jwt      *auth.JWTService
	revoker  auth.TokenRevoker
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	members identity.MemberRepository,
	orgs identity.OrganizationRepository,
	sessions auth.SessionStore,
	jwt *auth.JWTService,
	revoker auth.TokenRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		members:  members,
		orgs:     orgs,
		sessions: sessions,
		jwt:      jwt,
		revoker:  revoker,
		logger:   logger,
	}
}

// authenticate checks credentials. Unknown emails and wrong passwords give
// the same error.
func (s *AuthService) authenticate(ctx context.Context, in LoginInput) (*identity.User, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrInvalidInput) {
			s.logger.Warn("Login attempt for unknown email", zap.String("ip", in.IP))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(in.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()), zap.String("ip", in.IP))
		return nil, errInvalidCredentials
	}
	if !user.CanSignIn() {
		s.logger.Warn("Login attempt for inactive account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		// Don't fail the login over the timestamp
		s.logger.Error("Failed to record login", zap.Error(err))
	}
	return user, nil
}

// WebLogin verifies credentials and opens a browser session
func (s *AuthService) WebLogin(ctx context.Context, in LoginInput) (*auth.Session, *identity.User, error) {
	user, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessions.Create(ctx, user.ID, in.UserAgent, in.IP)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()), zap.String("method", "session"))
	return session, user, nil
}

// MobileLogin verifies credentials and issues a token pair
func (s *AuthService) MobileLogin(ctx context.Context, in LoginInput) (*auth.TokenPair, *identity.User, error) {
	user, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, nil, err
	}
	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()), zap.String("method", "bearer"))
	return pair, user, nil
}

// Refresh rotates a refresh token. The presented token is revoked so it
// cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if revoked, err := s.revoker.IsRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.CanSignIn() {
		return nil, shared.ErrUnauthorized
	}

	pair, old, err := s.jwt.Refresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Session expired, please sign in again")
		}
		return nil, shared.ErrUnauthorized
	}
	if err := s.revoker.Revoke(ctx, old.ID, old.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout ends the session or revokes the presented bearer token
func (s *AuthService) Logout(ctx context.Context, id *auth.Identity) error {
	switch id.Method {
	case auth.MethodSession:
		return s.sessions.Delete(ctx, id.SessionID)
	case auth.MethodBearer:
		if id.Claims == nil {
			return nil
		}
		return s.revoker.Revoke(ctx, id.Claims.ID, id.Claims.RemainingTTL())
	}
	return nil
}

// Me returns the user with their active memberships
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	orgs, err := s.orgs.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]identity.Organization, len(orgs))
	for _, o := range orgs {
		byID[o.ID] = o
	}

	profile := &Profile{User: user}
	for _, m := range members {
		org, ok := byID[m.OrganizationID]
		if !ok {
			continue
		}
		profile.Memberships = append(profile.Memberships, Membership{Member: m, Organization: org})
	}
	return profile, nil
}

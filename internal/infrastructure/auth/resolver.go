package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Method records which credential authenticated a request
type Method string

const (
	MethodSession Method = "session"
	MethodBearer  Method = "bearer"
)

// Identity is the result of resolving a request's credentials
type Identity struct {
	User      *identity.User
	Method    Method
	SessionID string  // set for MethodSession
	Claims    *Claims // set for MethodBearer
}

// Resolver turns request credentials into an internal user. The session
// cookie is tried first; a bearer token is only consulted when no valid
// session is present.
type Resolver struct {
	sessions   SessionStore
	jwt        *JWTService
	revoker    TokenRevoker
	users      identity.UserRepository
	cookieName string
}

// NewResolver creates a resolver
func NewResolver(sessions SessionStore, jwt *JWTService, revoker TokenRevoker, users identity.UserRepository, cookieName string) *Resolver {
	return &Resolver{sessions: sessions, jwt: jwt, revoker: revoker, users: users, cookieName: cookieName}
}

// Resolve authenticates r. Any failure yields shared.ErrUnauthorized; store
// errors are logged and treated as unauthenticated for that credential.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*Identity, error) {
	if id, ok := r.fromSession(ctx, req); ok {
		return id, nil
	}
	if id, ok := r.fromBearer(ctx, req); ok {
		return id, nil
	}
	return nil, shared.ErrUnauthorized
}

func (r *Resolver) fromSession(ctx context.Context, req *http.Request) (*Identity, bool) {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	sess, err := r.sessions.Get(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.FromContext(ctx).Warn("session lookup failed", zap.Error(err))
		}
		return nil, false
	}
	user, ok := r.loadUser(ctx, sess.UserID.String())
	if !ok {
		return nil, false
	}
	return &Identity{User: user, Method: MethodSession, SessionID: sess.ID}, true
}

func (r *Resolver) fromBearer(ctx context.Context, req *http.Request) (*Identity, bool) {
	token := BearerToken(req)
	if token == "" {
		return nil, false
	}
	claims, err := r.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, false
	}
	if r.revoker != nil {
		revoked, err := r.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.FromContext(ctx).Warn("token revocation check failed", zap.Error(err))
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}
	user, ok := r.loadUser(ctx, claims.UserID)
	if !ok {
		return nil, false
	}
	return &Identity{User: user, Method: MethodBearer, Claims: claims}, true
}

func (r *Resolver) loadUser(ctx context.Context, rawID string) (*identity.User, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, false
	}
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			logger.FromContext(ctx).Error("user lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if !user.CanSignIn() {
		return nil, false
	}
	return user, true
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

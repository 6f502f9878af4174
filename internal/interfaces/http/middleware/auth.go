package middleware

import (
	"context"
	"net/http"

	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IdentityKey is the gin context key holding the *auth.Identity
const IdentityKey = "auth_identity"

// IdentityResolver turns request credentials into a user
type IdentityResolver interface {
	Resolve(ctx context.Context, req *http.Request) (*auth.Identity, error)
}

// Authenticate requires a session cookie or bearer token and stores the
// resolved identity
func Authenticate(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth stores the identity when the request carries valid
// credentials and lets anonymous requests through
func OptionalAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := resolver.Resolve(c.Request.Context(), c.Request); err == nil {
			setIdentity(c, id)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(IdentityKey, id)
	userID := id.User.ID.String()
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
	if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
		span.SetAttributes(attribute.String("enduser.id", userID), attribute.String("auth.method", string(id.Method)))
	}
}

// CurrentIdentity returns the authenticated identity, or nil
func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	id := CurrentIdentity(c)
	if id == nil || id.User == nil {
		return uuid.Nil, false
	}
	return id.User.ID, true
}

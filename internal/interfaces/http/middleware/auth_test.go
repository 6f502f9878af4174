package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	id *auth.Identity
}

func (s stubResolver) Resolve(_ context.Context, req *http.Request) (*auth.Identity, error) {
	if s.id == nil || req.Header.Get("Authorization") == "" {
		return nil, errors.New("no credentials")
	}
	return s.id, nil
}

func testIdentity() *auth.Identity {
	return &auth.Identity{
		User:   &identity.User{BaseEntity: shared.BaseEntity{ID: uuid.New()}, Email: "tess@example.com"},
		Method: auth.MethodBearer,
	}
}

func TestAuthenticate(t *testing.T) {
	id := testIdentity()
	r := gin.New()
	r.Use(RequestID(), Authenticate(stubResolver{id: id}))
	r.GET("/me", func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		assert.True(t, ok)
		c.String(http.StatusOK, userID.String())
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"ERR_UNAUTHORIZED"`)
	})

	t.Run("stores the identity", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer x"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.User.ID.String(), w.Body.String())
	})
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.Use(OptionalAuth(stubResolver{id: testIdentity()}))
	r.GET("/doc", func(c *gin.Context) {
		if CurrentIdentity(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "member")
	})

	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/doc", nil).Body.String())
	assert.Equal(t, "member", serve(r, http.MethodGet, "/doc", map[string]string{"Authorization": "Bearer x"}).Body.String())
}

func TestCurrentUserIDWithoutIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentUserID(c)
	assert.False(t, ok)
}

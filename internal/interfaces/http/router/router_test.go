package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("/jobs")
	group.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/jobs/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/jobs/42").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("/t")
		g.GET("/a", ok).POST("/a", ok).PUT("/a/:id", ok).DELETE("/a/:id", ok)
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/t/a").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/t/a").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/t/a/1").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodDelete, "/api/t/a/1").Code)
	})

	t.Run("middleware stays inside the group", func(t *testing.T) {
		engine := gin.New()
		guarded := NewDomainGroup("").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		guarded.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })
		open := NewDomainGroup("")
		open.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api")
		guarded.RegisterRoutes(api)
		open.RegisterRoutes(api)

		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/private").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/public").Code)
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("/organizations").Use(func(c *gin.Context) {
			c.Header("X-Guarded", "1")
			c.Next()
		})
		g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "org "+c.Param("id")) })
		g.Group("/:id/members").GET("/:member_id", func(c *gin.Context) {
			c.String(http.StatusOK, "member "+c.Param("member_id")+" of "+c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodGet, "/api/organizations/7/members/3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "member 3 of 7", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Guarded"))
		assert.Equal(t, "org 7", serve(engine, http.MethodGet, "/api/organizations/7").Body.String())
	})
}

func TestMount(t *testing.T) {
	engine := gin.New()
	require.NotPanics(t, func() {
		Mount(engine, Handlers{}, Config{
			AuthLimiter:   middleware.NewRateLimiter(10, time.Minute),
			PublicLimiter: middleware.NewRateLimiter(30, time.Minute),
			Metrics:       http.NotFoundHandler(),
		})
	})

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /public/invoice/:id",
		"POST /api/auth/login",
		"POST /api/auth/mobile/login",
		"GET /api/auth/me",
		"GET /api/organizations/:id/members",
		"DELETE /api/organizations/:id/members/:member_id",
		"POST /api/jobs/:id/report/send",
		"GET /api/invoices/export",
		"GET /api/invoices/:id",
		"DELETE /api/invoices/:id/payments/:payment_id",
		"GET /api/quotes/:id",
		"POST /api/quotes/:id/convert",
		"GET /api/public/invoices/:token",
		"GET /api/public/quotes/:token",
		"GET /api/appointments",
		"POST /api/properties/:id/assets",
		"PUT /api/assets/:id",
		"POST /api/asset-jobs/:id/complete",
		"POST /api/sms/send",
		"POST /api/sms/credits",
		"POST /api/webhooks/sms",
		"GET /api/integrations/:provider/authorize",
		"PUT /api/integrations/:id",
		"POST /api/subcontractor-payments/:id/pay",
		"DELETE /api/trade-rates/:id",
		"POST /api/migrate",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
	assert.False(t, registered["GET /swagger/*any"], "swagger is mounted only when configured")
}

func TestWhenPublicToken(t *testing.T) {
	engine := gin.New()
	engine.GET("/doc", whenPublicToken(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/doc").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodGet, "/doc?public_token=abc").Code)
}

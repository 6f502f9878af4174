package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	build := func(cfg SwaggerConfig) *gin.Engine {
		r := gin.New()
		r.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("disabled hides the docs", func(t *testing.T) {
		w := serve(build(SwaggerConfig{}), http.MethodGet, "/swagger/index.html", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty allow list admits everyone", func(t *testing.T) {
		w := serve(build(SwaggerConfig{Enabled: true}), http.MethodGet, "/swagger/index.html", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("httptest client 192.0.2.1 matches a CIDR", func(t *testing.T) {
		r := build(SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.0.2.0/24"}})
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/swagger/index.html", nil).Code)
	})

	t.Run("other addresses are refused", func(t *testing.T) {
		r := build(SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1", "not-an-ip"}})
		assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/swagger/index.html", nil).Code)
	})
}

func TestIPAllowed(t *testing.T) {
	prefixes := parseAllowList([]string{"127.0.0.1", "10.1.0.0/16", "::1"})
	assert.True(t, ipAllowed("127.0.0.1", prefixes))
	assert.True(t, ipAllowed("10.1.200.3", prefixes))
	assert.True(t, ipAllowed("::1", prefixes))
	assert.True(t, ipAllowed("::ffff:127.0.0.1", prefixes))
	assert.False(t, ipAllowed("10.2.0.1", prefixes))
	assert.False(t, ipAllowed("", prefixes))
}

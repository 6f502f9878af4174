package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)
	require.NotNil(t, db.DB)
	db.ExpectationsWereMet(t)
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestTenantFixtures(t *testing.T) {
	tn := NewOwnerTenant(t)
	assert.True(t, tn.Member.IsAdmin())
	assert.Equal(t, tn.Organization.ID, tn.Member.OrganizationID)

	_, staff := tn.NewStaffMember(t, identity.CapCreateJobs)
	assert.True(t, staff.IsActive())
	assert.True(t, staff.Can(identity.CapCreateJobs))
	assert.False(t, staff.Can(identity.CapDeleteJobs))
}

func TestDoAndEnvelope(t *testing.T) {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "x"}})
	})

	w := Do(t, r, Request{Method: http.MethodPost, Path: "/echo", Body: map[string]string{"name": "ok"}})
	data := DataAs[map[string]string](t, w)
	assert.Equal(t, "ok", data["name"])

	AssertError(t, Do(t, r, Request{Path: "/fail"}), http.StatusNotFound, "NOT_FOUND")
}

func TestEventually(t *testing.T) {
	start := time.Now()
	Eventually(t, func() bool { return time.Since(start) > 10*time.Millisecond }, time.Second, 5*time.Millisecond)
}

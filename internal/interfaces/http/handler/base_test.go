package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NotFound("Job"), http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden, ""},
		{"invalid input", shared.InvalidInput("title is required"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "title is required"},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be deleted"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, ""},
		{"insufficient credits", shared.ErrInsufficientCredits, http.StatusBadRequest, dto.ErrCodeInsufficientCredits, ""},
		{"stale document", fmt.Errorf("save invoice: %w", shared.ConcurrencyConflict("Invoice")), http.StatusConflict, dto.ErrCodeConcurrencyConflict, "Invoice was changed by another request, reload and retry"},
		{"wrapped", errors.Join(errors.New("ctx"), shared.NotFound("Client")), http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"internal", errors.New("pq: relation \"jobs\" does not exist"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := testutil.Do(t, r, testutil.Request{Path: "/x"})
			testutil.AssertError(t, w, tt.wantStatus, tt.wantCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, testutil.DecodeEnvelope(t, w).Error.Message)
			}
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestBaseHandler_PathID(t *testing.T) {
	var h BaseHandler
	r := gin.New()
	r.GET("/jobs/:id", func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if ok {
			c.String(http.StatusOK, id.String())
		}
	})

	id := uuid.New()
	w := testutil.Do(t, r, testutil.Request{Path: "/jobs/" + id.String()})
	assert.Equal(t, id.String(), w.Body.String())

	w = testutil.Do(t, r, testutil.Request{Path: "/jobs/not-a-uuid"})
	testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestListFilter(t *testing.T) {
	clientID := uuid.New()

	t.Run("status and uuid filters", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/jobs?status=scheduled&client_id="+clientID.String(), nil)

		f, err := listFilter(c, dto.ListRequest{Search: "  kitchen "}, "client_id", "assigned_to")
		require.NoError(t, err)
		assert.Equal(t, "scheduled", f.Filters["status"])
		assert.Equal(t, clientID, f.Filters["client_id"])
		assert.NotContains(t, f.Filters, "assigned_to")
		assert.Equal(t, "kitchen", f.Search)
		assert.Equal(t, 1, f.Page)
		assert.Positive(t, f.PageSize)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/jobs?client_id=42", nil)

		_, err := listFilter(c, dto.ListRequest{}, "client_id")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestRequestHelpers(t *testing.T) {
	_, err := requiredOrganization("")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	org, err := organizationParam("")
	require.NoError(t, err)
	assert.Nil(t, org)

	d, err := parseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", formatDate(d))

	ts := "2026-03-02T09:00:00+11:00"
	got, err := optionalDate("start_time", &ts)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T22:00:00Z", *formatTime(got))

	bad := "next tuesday"
	_, err = optionalDate("start_time", &bad)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	empty := ""
	id, err := optionalUUID("client_id", &empty)
	require.NoError(t, err)
	assert.Nil(t, id)
}

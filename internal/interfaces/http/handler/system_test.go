package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubRunner struct {
	calls int
	res   migration.Result
	err   error
}

func (r *stubRunner) Apply(context.Context) (migration.Result, error) {
	r.calls++
	return r.res, r.err
}

func systemRouter(h *SystemHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.POST("/api/migrate", h.Migrate)
	return r
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler(stubPinger{}, func() string { return "closed" }, nil, "")
		w := httptest.NewRecorder()
		systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "ok", resp.Database)
		assert.Equal(t, "closed", resp.CalendarBreaker)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler(stubPinger{err: errors.New("connection refused")}, nil, nil, "")
		w := httptest.NewRecorder()
		systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "error", resp.Database)
		assert.Empty(t, resp.CalendarBreaker)
	})
}

func TestSystemHandler_Migrate(t *testing.T) {
	const key = "k3y-that-is-long-enough-for-config"

	tests := []struct {
		name       string
		configured string
		header     string
		runErr     error
		wantStatus int
		wantCalls  int
	}{
		{name: "disabled without key", configured: "", header: key, wantStatus: http.StatusNotFound},
		{name: "missing header", configured: key, header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", configured: key, header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "applies", configured: key, header: key, wantStatus: http.StatusOK, wantCalls: 1},
		{name: "runner error", configured: key, header: key, runErr: errors.New("dirty"), wantStatus: http.StatusInternalServerError, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{res: migration.Result{FromVersion: 3, ToVersion: 5, Applied: true}, err: tt.runErr}
			h := NewSystemHandler(stubPinger{}, nil, runner, tt.configured)

			req := httptest.NewRequest(http.MethodPost, "/api/migrate", nil)
			if tt.header != "" {
				req.Header.Set(MigrationKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			systemRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, runner.calls)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantStatus == http.StatusOK {
				assert.True(t, resp.Success)
				data := resp.Data.(map[string]any)
				assert.EqualValues(t, 5, data["to_version"])
			} else {
				assert.False(t, resp.Success)
				require.NotNil(t, resp.Error)
			}
		})
	}
}

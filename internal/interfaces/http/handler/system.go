package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"runtime"
	"time"

	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MigrationKeyHeader authorizes POST /api/migrate
const MigrationKeyHeader = "X-Migration-Key"

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// MigrationRunner applies pending schema migrations
type MigrationRunner interface {
	Apply(ctx context.Context) (migration.Result, error)
}

// SystemHandler serves health and schema migration
type SystemHandler struct {
	BaseHandler
	db           Pinger
	breaker      func() string
	migrations   MigrationRunner
	migrationKey string
	startTime    time.Time
}

// NewSystemHandler creates a new SystemHandler. breaker reports the trade
// calendar circuit state and may be nil when the calendar is not configured.
func NewSystemHandler(db Pinger, breaker func() string, migrations MigrationRunner, migrationKey string) *SystemHandler {
	return &SystemHandler{
		db:           db,
		breaker:      breaker,
		migrations:   migrations,
		migrationKey: migrationKey,
		startTime:    time.Now(),
	}
}

// HealthResponse is the liveness report
// @Description Service health
type HealthResponse struct {
	Status          string `json:"status" example:"healthy"`
	Time            string `json:"time" example:"2026-03-02T09:00:00Z"`
	Database        string `json:"database" example:"ok"`
	CalendarBreaker string `json:"calendar_breaker,omitempty" example:"closed"`
	GoVersion       string `json:"go_version" example:"go1.25.5"`
	Uptime          string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the database and reports the trade calendar circuit breaker
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Time:      time.Now().UTC().Format(time.RFC3339),
		Database:  "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.breaker != nil {
		resp.CalendarBreaker = h.breaker()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Migrate godoc
// @ID           migrate
// @Summary      Apply schema migrations
// @Description  Applies the embedded migrations in order. Disabled (404) unless a migration key is configured.
// @Tags         system
// @Produce      json
// @Param        X-Migration-Key header string true "Migration key"
// @Success      200 {object} APIResponse[migration.Result]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /migrate [post]
func (h *SystemHandler) Migrate(c *gin.Context) {
	if h.migrationKey == "" || h.migrations == nil {
		h.NotFound(c, "Resource not found")
		return
	}
	given := c.GetHeader(MigrationKeyHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.migrationKey)) != 1 {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid migration key")
		return
	}

	log := logger.FromContext(c.Request.Context())
	res, err := h.migrations.Apply(c.Request.Context())
	if err != nil {
		log.Error("Migration failed", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Migration failed")
		return
	}
	log.Info("Migrations applied",
		zap.Uint("from_version", res.FromVersion),
		zap.Uint("to_version", res.ToVersion),
		zap.Bool("applied", res.Applied))
	h.Success(c, res)
}

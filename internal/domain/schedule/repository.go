package schedule

import (
	"context"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentRepository defines persistence for native appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Appointment, error)
	Save(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// FeedRepository reads the internal sources of the calendar feed
type FeedRepository interface {
	// ListInternal returns appointments, scheduled jobs and active asset-register
	// jobs visible to the querying user
	ListInternal(ctx context.Context, q FeedQuery) ([]Entry, error)
}

// ExternalCalendar reads a user's third-party trade calendar
type ExternalCalendar interface {
	// Available reports whether the user has a usable connection
	Available(ctx context.Context, userID uuid.UUID) (bool, error)
	// FetchDay returns the provider's jobs starting on the given day
	FetchDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]Entry, error)
}

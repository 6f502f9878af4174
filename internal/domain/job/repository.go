package job

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for job persistence
type Repository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Job, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Job, int64, error)
	Save(ctx context.Context, j *Job) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

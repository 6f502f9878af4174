package property

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for properties and their assets
type Repository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Property, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Property, int64, error)
	Save(ctx context.Context, p *Property) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error

	FindAsset(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Asset, error)
	ListAssets(ctx context.Context, propertyID uuid.UUID) ([]Asset, error)
	SaveAsset(ctx context.Context, a *Asset) error
	DeleteAsset(ctx context.Context, organizationID, id uuid.UUID) error
}

// AssetJobRepository defines persistence for asset-register jobs
type AssetJobRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AssetRegisterJob, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]AssetRegisterJob, int64, error)
	Save(ctx context.Context, j *AssetRegisterJob) error
	// Complete persists the completed job and the optional next occurrence together
	Complete(ctx context.Context, done *AssetRegisterJob, next *AssetRegisterJob) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

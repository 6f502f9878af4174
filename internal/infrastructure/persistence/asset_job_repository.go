package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetJobRepository implements property.AssetJobRepository using GORM
type GormAssetJobRepository struct {
	db *gorm.DB
}

// NewGormAssetJobRepository creates a new GormAssetJobRepository
func NewGormAssetJobRepository(db *gorm.DB) *GormAssetJobRepository {
	return &GormAssetJobRepository{db: db}
}

func (r *GormAssetJobRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.AssetRegisterJob, error) {
	var j property.AssetRegisterJob
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&j).Error
	if err != nil {
		return nil, translate(err, "Asset job")
	}
	return &j, nil
}

func (r *GormAssetJobRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]property.AssetRegisterJob, int64, error) {
	query := r.db.WithContext(ctx).Model(&property.AssetRegisterJob{}).Scopes(tenant.Visible(scope))
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"property_id", "asset_id", "assigned_to"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}

	query, total, err := paginate(query, filter, AssetJobSortFields, "scheduled_date")
	if err != nil {
		return nil, 0, err
	}
	var jobs []property.AssetRegisterJob
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *GormAssetJobRepository) Save(ctx context.Context, j *property.AssetRegisterJob) error {
	return translate(r.db.WithContext(ctx).Save(j).Error, "Asset job")
}

func (r *GormAssetJobRepository) Complete(ctx context.Context, done, next *property.AssetRegisterJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(done).Error; err != nil {
			return translate(err, "Asset job")
		}
		if next == nil {
			return nil
		}
		return translate(tx.Create(next).Error, "Asset job")
	})
}

func (r *GormAssetJobRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&property.AssetRegisterJob{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Asset job")
	}
	return nil
}

var _ property.AssetJobRepository = (*GormAssetJobRepository)(nil)

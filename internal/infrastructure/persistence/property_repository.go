package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyRepository implements property.Repository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

func (r *GormPropertyRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.Property, error) {
	var p property.Property
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err, "Property")
	}
	return &p, nil
}

func (r *GormPropertyRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]property.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&property.Property{}).Scopes(tenant.Visible(scope))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR address ILIKE ?", p, p)
	}
	if v, ok := filter.Filters["client_id"].(uuid.UUID); ok {
		query = query.Where("client_id = ?", v)
	}

	query, total, err := paginate(query, filter, PropertySortFields, "name")
	if err != nil {
		return nil, 0, err
	}
	var props []property.Property
	if err := query.Find(&props).Error; err != nil {
		return nil, 0, err
	}
	return props, total, nil
}

func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return translate(r.db.WithContext(ctx).Save(p).Error, "Property")
}

// Delete removes the property. Assets and asset-register jobs cascade in the schema.
func (r *GormPropertyRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&property.Property{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Property")
	}
	return nil
}

func (r *GormPropertyRepository) FindAsset(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.Asset, error) {
	var a property.Asset
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, translate(err, "Asset")
	}
	return &a, nil
}

// ListAssets expects propertyID to come from an already scoped property lookup
func (r *GormPropertyRepository) ListAssets(ctx context.Context, propertyID uuid.UUID) ([]property.Asset, error) {
	var assets []property.Asset
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("name ASC").Find(&assets).Error
	return assets, err
}

func (r *GormPropertyRepository) SaveAsset(ctx context.Context, a *property.Asset) error {
	return translate(r.db.WithContext(ctx).Save(a).Error, "Asset")
}

func (r *GormPropertyRepository) DeleteAsset(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&property.Asset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Asset")
	}
	return nil
}

var _ property.Repository = (*GormPropertyRepository)(nil)

package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements client.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*client.Client, error) {
	var c client.Client
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, translate(err, "Client")
	}
	return &c, nil
}

func (r *GormClientRepository) FindInOrganization(ctx context.Context, organizationID, id uuid.UUID) (*client.Client, error) {
	var c client.Client
	err := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, translate(err, "Client")
	}
	return &c, nil
}

// List supports the filters "search" (name or email) and "include_archived"
func (r *GormClientRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]client.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&client.Client{}).Scopes(tenant.Visible(scope))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ?", p, p)
	}
	if archived, _ := filter.Filters["include_archived"].(bool); !archived {
		query = query.Where("is_archived = ?", false)
	}

	query, total, err := paginate(query, filter, ClientSortFields, "name")
	if err != nil {
		return nil, 0, err
	}
	var clients []client.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *GormClientRepository) Save(ctx context.Context, c *client.Client) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "Client")
}

func (r *GormClientRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&client.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Client")
	}
	return nil
}

var _ client.Repository = (*GormClientRepository)(nil)

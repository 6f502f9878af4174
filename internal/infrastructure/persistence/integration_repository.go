package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntegrationRepository implements integration.Repository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

func (r *GormIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Connection, error) {
	var c integration.Connection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "Integration")
	}
	return &c, nil
}

// FindForUser returns the most recently updated live connection
func (r *GormIntegrationRepository) FindForUser(ctx context.Context, userID uuid.UUID, provider integration.Provider) (*integration.Connection, error) {
	var c integration.Connection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND status <> ?", userID, provider, integration.StatusDisconnected).
		Order("updated_at DESC").
		First(&c).Error
	if err != nil {
		return nil, translate(err, "Integration")
	}
	return &c, nil
}

func (r *GormIntegrationRepository) FindForOrganization(ctx context.Context, organizationID uuid.UUID, provider integration.Provider) (*integration.Connection, error) {
	var c integration.Connection
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND provider = ? AND status <> ?", organizationID, provider, integration.StatusDisconnected).
		Order("updated_at DESC").
		First(&c).Error
	if err != nil {
		return nil, translate(err, "Integration")
	}
	return &c, nil
}

func (r *GormIntegrationRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]integration.Connection, error) {
	var conns []integration.Connection
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("provider ASC").
		Find(&conns).Error
	return conns, err
}

func (r *GormIntegrationRepository) Save(ctx context.Context, c *integration.Connection) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "Integration")
}

var _ integration.Repository = (*GormIntegrationRepository)(nil)

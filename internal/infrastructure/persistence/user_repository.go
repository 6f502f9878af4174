package persistence

import (
	"context"
	"strings"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.InvalidInput("email is required")
	}
	var u identity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (r *GormUserRepository) FindByAuthProviderID(ctx context.Context, providerID string) (*identity.User, error) {
	if providerID == "" {
		return nil, shared.NotFound("User")
	}
	var u identity.User
	if err := r.db.WithContext(ctx).Where("auth_provider_id = ?", providerID).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error, "User")
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

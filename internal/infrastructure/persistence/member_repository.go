package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMemberRepository implements identity.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindActive is the membership check behind every tenant-scoped operation
func (r *GormMemberRepository) FindActive(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	var m identity.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ? AND status = ?", organizationID, userID, identity.MemberStatusActive).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "Membership")
	}
	return &m, nil
}

func (r *GormMemberRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*identity.OrganizationMember, error) {
	var m identity.OrganizationMember
	err := r.db.WithContext(ctx).Preload("User").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "Member")
	}
	return &m, nil
}

// FindByUser returns the membership in any status, used when re-inviting
func (r *GormMemberRepository) FindByUser(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	var m identity.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "Member")
	}
	return &m, nil
}

func (r *GormMemberRepository) ListVisible(ctx context.Context, organizationID uuid.UUID) ([]identity.OrganizationMember, error) {
	var members []identity.OrganizationMember
	err := r.db.WithContext(ctx).Preload("User").
		Where("organization_id = ? AND status <> ?", organizationID, identity.MemberStatusRemoved).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *GormMemberRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]identity.OrganizationMember, error) {
	var members []identity.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, identity.MemberStatusActive).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *GormMemberRepository) Save(ctx context.Context, m *identity.OrganizationMember) error {
	return translate(r.db.WithContext(ctx).Omit("User").Save(m).Error, "Member")
}

var _ identity.MemberRepository = (*GormMemberRepository)(nil)

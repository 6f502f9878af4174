package persistence

import (
	"context"
	"time"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements identity.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, translate(err, "Organization")
	}
	return &org, nil
}

func (r *GormOrganizationRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]identity.Organization, error) {
	var orgs []identity.Organization
	err := r.db.WithContext(ctx).
		Where("id IN ("+tenant.MembershipSubquery+")", userID).
		Order("name ASC").
		Find(&orgs).Error
	return orgs, err
}

func (r *GormOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	return translate(r.db.WithContext(ctx).Save(org).Error, "Organization")
}

func (r *GormOrganizationRepository) CreateWithOwner(ctx context.Context, org *identity.Organization, owner *identity.OrganizationMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return translate(err, "Organization")
		}
		if err := tx.Omit("User").Create(owner).Error; err != nil {
			return translate(err, "Member")
		}
		return nil
	})
}

type creditBalance struct {
	SMSCredits int
}

// AddSMSCredits adjusts the balance in a single statement so concurrent
// top-ups and sends never lose an update. A negative delta that would take
// the balance below zero fails with ErrInsufficientCredits.
func (r *GormOrganizationRepository) AddSMSCredits(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var out []creditBalance
	err := r.db.WithContext(ctx).Raw(
		`UPDATE organizations SET sms_credits = sms_credits + ?, updated_at = ?
		 WHERE id = ? AND sms_credits + ? >= 0
		 RETURNING sms_credits`,
		delta, time.Now(), id, delta,
	).Scan(&out).Error
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return 0, ferr
		}
		return 0, shared.ErrInsufficientCredits
	}
	return out[0].SMSCredits, nil
}

// ConsumeSMSCredits decrements by n only when at least n credits remain
func (r *GormOrganizationRepository) ConsumeSMSCredits(ctx context.Context, id uuid.UUID, n int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organizations SET sms_credits = sms_credits - ?, updated_at = ?
		 WHERE id = ? AND sms_credits >= ?`,
		n, time.Now(), id, n,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

var _ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)

package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubcontractorPaymentRepository implements workforce.PaymentRepository using GORM
type GormSubcontractorPaymentRepository struct {
	db *gorm.DB
}

// NewGormSubcontractorPaymentRepository creates a new GormSubcontractorPaymentRepository
func NewGormSubcontractorPaymentRepository(db *gorm.DB) *GormSubcontractorPaymentRepository {
	return &GormSubcontractorPaymentRepository{db: db}
}

func (r *GormSubcontractorPaymentRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*workforce.SubcontractorPayment, error) {
	var p workforce.SubcontractorPayment
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err, "Subcontractor payment")
	}
	return &p, nil
}

func (r *GormSubcontractorPaymentRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]workforce.SubcontractorPayment, int64, error) {
	query := r.db.WithContext(ctx).Model(&workforce.SubcontractorPayment{}).Scopes(tenant.Visible(scope))
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"member_id", "job_id"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}

	query, total, err := paginate(query, filter, WorkforceSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}
	var payments []workforce.SubcontractorPayment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *GormSubcontractorPaymentRepository) Save(ctx context.Context, p *workforce.SubcontractorPayment) error {
	return translate(r.db.WithContext(ctx).Save(p).Error, "Subcontractor payment")
}

func (r *GormSubcontractorPaymentRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&workforce.SubcontractorPayment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Subcontractor payment")
	}
	return nil
}

// GormTradeRateRepository implements workforce.TradeRateRepository using GORM
type GormTradeRateRepository struct {
	db *gorm.DB
}

// NewGormTradeRateRepository creates a new GormTradeRateRepository
func NewGormTradeRateRepository(db *gorm.DB) *GormTradeRateRepository {
	return &GormTradeRateRepository{db: db}
}

func (r *GormTradeRateRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*workforce.TradeRate, error) {
	var rate workforce.TradeRate
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&rate).Error
	if err != nil {
		return nil, translate(err, "Trade rate")
	}
	return &rate, nil
}

func (r *GormTradeRateRepository) List(ctx context.Context, scope shared.Scope) ([]workforce.TradeRate, error) {
	var rates []workforce.TradeRate
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).
		Order("is_default DESC, trade ASC").
		Find(&rates).Error
	return rates, err
}

// Save clears any other default first so the partial unique index holds
func (r *GormTradeRateRepository) Save(ctx context.Context, rate *workforce.TradeRate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rate.IsDefault {
			err := tx.Model(&workforce.TradeRate{}).
				Where("organization_id = ? AND id <> ? AND is_default = ?", rate.OrganizationID, rate.ID, true).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return translate(tx.Save(rate).Error, "Trade rate")
	})
}

func (r *GormTradeRateRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&workforce.TradeRate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Trade rate")
	}
	return nil
}

var (
	_ workforce.PaymentRepository   = (*GormSubcontractorPaymentRepository)(nil)
	_ workforce.TradeRateRepository = (*GormTradeRateRepository)(nil)
)

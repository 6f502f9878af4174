package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/messaging"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSMSRepository implements messaging.SMSRepository using GORM
type GormSMSRepository struct {
	db *gorm.DB
}

// NewGormSMSRepository creates a new GormSMSRepository
func NewGormSMSRepository(db *gorm.DB) *GormSMSRepository {
	return &GormSMSRepository{db: db}
}

func (r *GormSMSRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]messaging.SMSMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&messaging.SMSMessage{}).Scopes(tenant.Visible(scope))
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"client_id", "job_id"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}

	query, total, err := paginate(query, filter, SMSSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}
	var msgs []messaging.SMSMessage
	if err := query.Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// FindByProviderID is used by delivery webhooks, which carry no session
func (r *GormSMSRepository) FindByProviderID(ctx context.Context, providerMessageID string) (*messaging.SMSMessage, error) {
	if providerMessageID == "" {
		return nil, shared.NotFound("SMS message")
	}
	var m messaging.SMSMessage
	err := r.db.WithContext(ctx).Where("provider_message_id = ?", providerMessageID).First(&m).Error
	if err != nil {
		return nil, translate(err, "SMS message")
	}
	return &m, nil
}

func (r *GormSMSRepository) Save(ctx context.Context, m *messaging.SMSMessage) error {
	return translate(r.db.WithContext(ctx).Save(m).Error, "SMS message")
}

var _ messaging.SMSRepository = (*GormSMSRepository)(nil)

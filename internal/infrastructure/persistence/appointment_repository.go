package persistence

import (
	"context"

	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements schedule.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*schedule.Appointment, error) {
	var a schedule.Appointment
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, translate(err, "Appointment")
	}
	return &a, nil
}

func (r *GormAppointmentRepository) Save(ctx context.Context, a *schedule.Appointment) error {
	return translate(r.db.WithContext(ctx).Save(a).Error, "Appointment")
}

func (r *GormAppointmentRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&schedule.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Appointment")
	}
	return nil
}

var _ schedule.AppointmentRepository = (*GormAppointmentRepository)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements job.Repository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

func (r *GormJobRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*job.Job, error) {
	var j job.Job
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope)).Where("id = ?", id).First(&j).Error
	if err != nil {
		return nil, translate(err, "Job")
	}
	return &j, nil
}

// List supports the filters status, client_id, property_id, assigned_to and
// scheduled_from / scheduled_to on scheduled_start.
func (r *GormJobRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]job.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&job.Job{}).Scopes(tenant.Visible(scope))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("title ILIKE ? OR address ILIKE ?", p, p)
	}
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"client_id", "property_id", "assigned_to"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}
	if v, ok := filter.Filters["scheduled_from"].(time.Time); ok {
		query = query.Where("scheduled_start >= ?", v)
	}
	if v, ok := filter.Filters["scheduled_to"].(time.Time); ok {
		query = query.Where("scheduled_start < ?", v)
	}

	query, total, err := paginate(query, filter, JobSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}
	var jobs []job.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	return translate(r.db.WithContext(ctx).Save(j).Error, "Job")
}

func (r *GormJobRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&job.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Job")
	}
	return nil
}

var _ job.Repository = (*GormJobRepository)(nil)

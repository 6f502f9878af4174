package operations

import (
	"context"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetJobService manages scheduled inspections and maintenance on the asset
// register. These appear in the appointment feed while active.
type AssetJobService struct {
	jobs       property.AssetJobRepository
	properties property.Repository
	access     *appidentity.Access
	logger     *zap.Logger
	now        func() time.Time
}

// NewAssetJobService creates an asset-register job service
func NewAssetJobService(jobs property.AssetJobRepository, properties property.Repository, access *appidentity.Access, logger *zap.Logger) *AssetJobService {
	return &AssetJobService{jobs: jobs, properties: properties, access: access, logger: logger, now: time.Now}
}

func (s *AssetJobService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[property.AssetRegisterJob], error) {
	if q.OrganizationID != nil {
		if _, err := s.access.Member(ctx, *q.OrganizationID, userID); err != nil {
			return shared.Paginated[property.AssetRegisterJob]{}, err
		}
	}
	q.Filter.Normalize()
	items, total, err := s.jobs.List(ctx, shared.NewScope(userID, q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[property.AssetRegisterJob]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

func (s *AssetJobService) Create(ctx context.Context, userID uuid.UUID, in CreateAssetJobInput) (*property.AssetRegisterJob, error) {
	scope := shared.NewScope(userID, nil)
	p, err := s.properties.FindByID(ctx, scope, in.PropertyID)
	if err != nil {
		return nil, referenceError(err, "property_id")
	}
	if _, err := s.access.Require(ctx, p.OrganizationID, userID, identity.CapCreateJobs); err != nil {
		return nil, err
	}
	if in.Patch.AssetID != nil {
		a, err := s.properties.FindAsset(ctx, scope, *in.Patch.AssetID)
		if err != nil {
			return nil, referenceError(err, "asset_id")
		}
		if a.PropertyID != p.ID {
			return nil, shared.InvalidInput("asset_id is not installed at this property")
		}
	}
	j, err := property.NewAssetRegisterJob(p, in.Title, in.JobType)
	if err != nil {
		return nil, err
	}
	in.Patch.Title, in.Patch.JobType, in.Patch.Cancel = nil, nil, false
	if err := j.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *AssetJobService) Update(ctx context.Context, userID, id uuid.UUID, patch property.AssetJobPatch) (*property.AssetRegisterJob, error) {
	j, err := s.jobs.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, j.OrganizationID, userID, identity.CapEditJobs); err != nil {
		return nil, err
	}
	if err := j.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *AssetJobService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	j, err := s.jobs.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return err
	}
	if _, err := s.access.Require(ctx, j.OrganizationID, userID, identity.CapDeleteJobs); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, j.OrganizationID, j.ID)
}

// Complete closes the job and, for recurring work, schedules the next
// occurrence in the same transaction. The next job is nil for one-off work.
func (s *AssetJobService) Complete(ctx context.Context, userID, id uuid.UUID) (done, next *property.AssetRegisterJob, err error) {
	j, err := s.jobs.FindByID(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.access.Member(ctx, j.OrganizationID, userID)
	if err != nil {
		return nil, nil, err
	}
	if j.AssignedTo == nil || *j.AssignedTo != userID {
		if err := m.Require(identity.CapEditJobs); err != nil {
			return nil, nil, err
		}
	}
	next, err = j.Complete(s.now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.jobs.Complete(ctx, j, next); err != nil {
		return nil, nil, err
	}
	fields := []zap.Field{zap.String("asset_job_id", j.ID.String())}
	if next != nil {
		fields = append(fields, zap.String("next_id", next.ID.String()), zap.Time("next_date", *next.ScheduledDate))
	}
	s.logger.Info("Asset job completed", fields...)
	return j, next, nil
}

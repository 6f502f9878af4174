package operations

import (
	"context"
	"errors"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobService manages jobs under the member capability flags
type JobService struct {
	jobs       job.Repository
	clients    client.Repository
	properties property.Repository
	members    identity.MemberRepository
	access     *appidentity.Access
	logger     *zap.Logger
}

// NewJobService creates a job service
func NewJobService(
	jobs job.Repository,
	clients client.Repository,
	properties property.Repository,
	members identity.MemberRepository,
	access *appidentity.Access,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobs:       jobs,
		clients:    clients,
		properties: properties,
		members:    members,
		access:     access,
		logger:     logger,
	}
}

// List returns jobs visible to the user
func (s *JobService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[job.Job], error) {
	if q.OrganizationID != nil {
		if _, err := s.access.Member(ctx, *q.OrganizationID, userID); err != nil {
			return shared.Paginated[job.Job]{}, err
		}
	}
	q.Filter.Normalize()
	items, total, err := s.jobs.List(ctx, shared.NewScope(userID, q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[job.Job]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

// Get returns a job the user can see
func (s *JobService) Get(ctx context.Context, userID, id uuid.UUID) (*job.Job, error) {
	return s.jobs.FindByID(ctx, shared.NewScope(userID, nil), id)
}

// Create adds a job. Requires can_create_jobs or an admin role.
func (s *JobService) Create(ctx context.Context, userID uuid.UUID, in CreateJobInput) (*job.Job, error) {
	if _, err := s.access.Require(ctx, in.OrganizationID, userID, identity.CapCreateJobs); err != nil {
		return nil, err
	}
	j, err := job.NewJob(in.OrganizationID, userID, in.Title, in.JobType)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, in.OrganizationID, in.Patch); err != nil {
		return nil, err
	}
	in.Patch.Title, in.Patch.JobType = nil, nil
	if err := j.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	s.logger.Info("Job created",
		zap.String("job_id", j.ID.String()),
		zap.String("organization_id", j.OrganizationID.String()),
		zap.String("job_type", string(j.JobType)))
	return j, nil
}

// Update changes a job. Requires can_edit_jobs or an admin role.
func (s *JobService) Update(ctx context.Context, userID, id uuid.UUID, patch job.Patch) (*job.Job, error) {
	j, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, j.OrganizationID, userID, identity.CapEditJobs); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, j.OrganizationID, patch); err != nil {
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

// Delete removes a job. Requires can_delete_jobs or an admin role.
func (s *JobService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	j, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if _, err := s.access.Require(ctx, j.OrganizationID, userID, identity.CapDeleteJobs); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, j.OrganizationID, j.ID); err != nil {
		return err
	}
	s.logger.Info("Job deleted", zap.String("job_id", id.String()))
	return nil
}

// Complete marks the job done. The assigned technician may complete their own
// job without can_edit_jobs.
func (s *JobService) Complete(ctx context.Context, userID, id uuid.UUID, notes string) (*job.Job, error) {
	j, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	m, err := s.access.Member(ctx, j.OrganizationID, userID)
	if err != nil {
		return nil, err
	}
	assignee := j.AssignedTo != nil && *j.AssignedTo == userID
	if !assignee {
		if err := m.Require(identity.CapEditJobs); err != nil {
			return nil, err
		}
	}
	if err := j.Complete(notes); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	s.logger.Info("Job completed", zap.String("job_id", j.ID.String()))
	return j, nil
}

// checkReferences verifies linked rows belong to the job's organization
func (s *JobService) checkReferences(ctx context.Context, userID, orgID uuid.UUID, p job.Patch) error {
	scope := shared.NewScope(userID, &orgID)
	if p.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, scope, *p.ClientID); err != nil {
			return referenceError(err, "client_id")
		}
	}
	if p.PropertyID != nil {
		if _, err := s.properties.FindByID(ctx, scope, *p.PropertyID); err != nil {
			return referenceError(err, "property_id")
		}
	}
	if p.AssignedTo != nil {
		if _, err := s.members.FindActive(ctx, orgID, *p.AssignedTo); err != nil {
			return referenceError(err, "assigned_to")
		}
	}
	return nil
}

// referenceError turns a missing linked row into a 400 naming the field
func referenceError(err error, field string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidInput(field + " does not belong to this organization")
	}
	return err
}

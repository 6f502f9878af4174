package schedule

import (
	"context"
	"errors"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAppointmentInput contains the input for booking an appointment
type CreateAppointmentInput struct {
	OrganizationID uuid.UUID
	Title          string
	StartTime      time.Time
	EndTime        time.Time
	Patch          schedule.AppointmentPatch
}

// AppointmentService manages appointments booked directly in the app
type AppointmentService struct {
	appointments schedule.AppointmentRepository
	clients      client.Repository
	jobs         job.Repository
	members      identity.MemberRepository
	access       *appidentity.Access
	logger       *zap.Logger
}

// NewAppointmentService creates an appointment service
func NewAppointmentService(
	appointments schedule.AppointmentRepository,
	clients client.Repository,
	jobs job.Repository,
	members identity.MemberRepository,
	access *appidentity.Access,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		clients:      clients,
		jobs:         jobs,
		members:      members,
		access:       access,
		logger:       logger,
	}
}

func (s *AppointmentService) Get(ctx context.Context, userID, id uuid.UUID) (*schedule.Appointment, error) {
	return s.appointments.FindByID(ctx, shared.NewScope(userID, nil), id)
}

func (s *AppointmentService) Create(ctx context.Context, userID uuid.UUID, in CreateAppointmentInput) (*schedule.Appointment, error) {
	if _, err := s.access.Member(ctx, in.OrganizationID, userID); err != nil {
		return nil, err
	}
	a, err := schedule.NewAppointment(in.OrganizationID, userID, in.Title, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, in.OrganizationID, in.Patch); err != nil {
		return nil, err
	}
	in.Patch.Title, in.Patch.StartTime, in.Patch.EndTime = nil, nil, nil
	if err := a.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.appointments.Save(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("Appointment created",
		zap.String("appointment_id", a.ID.String()),
		zap.Time("start_time", a.StartTime))
	return a, nil
}

func (s *AppointmentService) Update(ctx context.Context, userID, id uuid.UUID, patch schedule.AppointmentPatch) (*schedule.Appointment, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Member(ctx, a.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, a.OrganizationID, patch); err != nil {
		return nil, err
	}
	if err := a.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.appointments.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an appointment. The creator or an admin may delete it.
func (s *AppointmentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	m, err := s.access.Member(ctx, a.OrganizationID, userID)
	if err != nil {
		return err
	}
	if a.CreatedBy != userID && !m.IsAdmin() {
		return shared.Forbidden("Only the creator or an admin can delete this appointment")
	}
	return s.appointments.Delete(ctx, a.OrganizationID, a.ID)
}

func (s *AppointmentService) checkReferences(ctx context.Context, userID, orgID uuid.UUID, p schedule.AppointmentPatch) error {
	scope := shared.NewScope(userID, &orgID)
	if p.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, scope, *p.ClientID); err != nil {
			return referenceError(err, "client_id")
		}
	}
	if p.JobID != nil {
		if _, err := s.jobs.FindByID(ctx, scope, *p.JobID); err != nil {
			return referenceError(err, "job_id")
		}
	}
	if p.AssignedTo != nil {
		if _, err := s.members.FindActive(ctx, orgID, *p.AssignedTo); err != nil {
			return referenceError(err, "assigned_to")
		}
	}
	return nil
}

func referenceError(err error, field string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidInput(field + " does not belong to this organization")
	}
	return err
}

package schedule

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentStatus is the state of a native appointment
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// IsValid reports whether the status is known
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a calendar booking created directly in the app
type Appointment struct {
	shared.TenantEntity
	ClientID    *uuid.UUID        `gorm:"type:uuid;index"`
	JobID       *uuid.UUID        `gorm:"type:uuid;index"`
	Title       string            `gorm:"type:varchar(255);not null"`
	Description string            `gorm:"type:text"`
	Location    string            `gorm:"type:text"`
	StartTime   time.Time         `gorm:"not null;index"`
	EndTime     time.Time         `gorm:"not null"`
	AssignedTo  *uuid.UUID        `gorm:"type:uuid;index"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	CreatedBy   uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment creates a scheduled appointment
func NewAppointment(organizationID, createdBy uuid.UUID, title string, start, end time.Time) (*Appointment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidInput("title is required")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	return &Appointment{
		TenantEntity: shared.NewTenantEntity(organizationID),
		Title:        title,
		StartTime:    start,
		EndTime:      end,
		Status:       AppointmentScheduled,
		CreatedBy:    createdBy,
	}, nil
}

// AppointmentPatch holds optional appointment updates
type AppointmentPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	AssignedTo  *uuid.UUID
	ClientID    *uuid.UUID
	JobID       *uuid.UUID
	Status      *AppointmentStatus
}

// Apply updates the appointment
func (a *Appointment) Apply(p AppointmentPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return shared.InvalidInput("title cannot be empty")
		}
		a.Title = title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	start, end := a.StartTime, a.EndTime
	if p.StartTime != nil {
		start = *p.StartTime
	}
	if p.EndTime != nil {
		end = *p.EndTime
	}
	if err := validateWindow(start, end); err != nil {
		return err
	}
	a.StartTime, a.EndTime = start, end
	if p.AssignedTo != nil {
		a.AssignedTo = p.AssignedTo
	}
	if p.ClientID != nil {
		a.ClientID = p.ClientID
	}
	if p.JobID != nil {
		a.JobID = p.JobID
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return shared.InvalidInput("status is not valid")
		}
		a.Status = *p.Status
	}
	a.Touch()
	return nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.InvalidInput("start_time and end_time are required")
	}
	if !end.After(start) {
		return shared.InvalidInput("end_time must be after start_time")
	}
	return nil
}

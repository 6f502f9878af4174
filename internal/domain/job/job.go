package job

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a job
type Status string

const (
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Type classifies the work
type Type string

const (
	TypeRepair       Type = "repair"
	TypeInstallation Type = "installation"
	TypeMaintenance  Type = "maintenance"
	TypeInspection   Type = "inspection"
	TypeQuoteVisit   Type = "quote_visit"
	TypeEmergency    Type = "emergency"
	TypeOther        Type = "other"
)

// IsValid reports whether the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeRepair, TypeInstallation, TypeMaintenance, TypeInspection, TypeQuoteVisit, TypeEmergency, TypeOther:
		return true
	}
	return false
}

// Priority orders jobs on the board
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Job is a unit of work for a client
type Job struct {
	shared.TenantEntity
	ClientID        *uuid.UUID `gorm:"type:uuid;index"`
	PropertyID      *uuid.UUID `gorm:"type:uuid;index"`
	Title           string     `gorm:"type:varchar(255);not null"`
	Description     string     `gorm:"type:text"`
	JobType         Type       `gorm:"type:varchar(30);not null;default:'other'"`
	Status          Status     `gorm:"type:varchar(20);not null;default:'pending'"`
	Priority        Priority   `gorm:"type:varchar(20);not null;default:'normal'"`
	Address         string     `gorm:"type:text"`
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	AssignedTo      *uuid.UUID `gorm:"type:uuid;index"`
	CompletedAt     *time.Time
	CompletionNotes string    `gorm:"type:text"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a pending job
func NewJob(organizationID, createdBy uuid.UUID, title string, jobType Type) (*Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidInput("title is required")
	}
	if len(title) > 255 {
		return nil, shared.InvalidInput("title cannot exceed 255 characters")
	}
	if jobType == "" {
		jobType = TypeOther
	}
	if !jobType.IsValid() {
		return nil, shared.InvalidInput("job_type is not valid")
	}
	return &Job{
		TenantEntity: shared.NewTenantEntity(organizationID),
		Title:        title,
		JobType:      jobType,
		Status:       StatusPending,
		Priority:     PriorityNormal,
		CreatedBy:    createdBy,
	}, nil
}

// Schedule sets or clears the scheduled window
func (j *Job) Schedule(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return shared.InvalidInput("scheduled_start and scheduled_end must be set together")
	}
	if start != nil && !end.After(*start) {
		return shared.InvalidInput("scheduled_end must be after scheduled_start")
	}
	j.ScheduledStart = start
	j.ScheduledEnd = end
	if start != nil && j.Status == StatusPending {
		j.Status = StatusScheduled
	}
	j.Touch()
	return nil
}

// IsScheduled reports whether the job appears on the calendar
func (j *Job) IsScheduled() bool {
	return j.ScheduledStart != nil && j.ScheduledEnd != nil
}

// SetStatus moves the job to a new status
func (j *Job) SetStatus(s Status) error {
	if !s.IsValid() {
		return shared.InvalidInput("status is not valid")
	}
	if j.Status == StatusCancelled && s != StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled jobs cannot be reopened")
	}
	j.Status = s
	if s == StatusCompleted && j.CompletedAt == nil {
		now := time.Now()
		j.CompletedAt = &now
	}
	if s != StatusCompleted {
		j.CompletedAt = nil
	}
	j.Touch()
	return nil
}

// Complete marks the job done with notes for the completion report
func (j *Job) Complete(notes string) error {
	if j.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled jobs cannot be completed")
	}
	now := time.Now()
	j.Status = StatusCompleted
	j.CompletedAt = &now
	if strings.TrimSpace(notes) != "" {
		j.CompletionNotes = notes
	}
	j.UpdatedAt = now
	return nil
}

// Patch holds optional job updates
type Patch struct {
	Title          *string
	Description    *string
	JobType        *Type
	Status         *Status
	Priority       *Priority
	Address        *string
	ClientID       *uuid.UUID
	PropertyID     *uuid.UUID
	AssignedTo     *uuid.UUID
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ClearSchedule  bool
}

// Apply updates the job
func (j *Job) Apply(p Patch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return shared.InvalidInput("title cannot be empty")
		}
		j.Title = title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.JobType != nil {
		if !p.JobType.IsValid() {
			return shared.InvalidInput("job_type is not valid")
		}
		j.JobType = *p.JobType
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return shared.InvalidInput("priority is not valid")
		}
		j.Priority = *p.Priority
	}
	if p.Address != nil {
		j.Address = *p.Address
	}
	if p.ClientID != nil {
		j.ClientID = p.ClientID
	}
	if p.PropertyID != nil {
		j.PropertyID = p.PropertyID
	}
	if p.AssignedTo != nil {
		j.AssignedTo = p.AssignedTo
	}
	switch {
	case p.ClearSchedule:
		j.ScheduledStart, j.ScheduledEnd = nil, nil
	case p.ScheduledStart != nil || p.ScheduledEnd != nil:
		start, end := j.ScheduledStart, j.ScheduledEnd
		if p.ScheduledStart != nil {
			start = p.ScheduledStart
		}
		if p.ScheduledEnd != nil {
			end = p.ScheduledEnd
		}
		if err := j.Schedule(start, end); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := j.SetStatus(*p.Status); err != nil {
			return err
		}
	}
	j.Touch()
	return nil
}

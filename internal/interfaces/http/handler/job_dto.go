package handler

import (
	"github.com/fieldline/backend/internal/domain/job"
)

// JobFields are the optional job fields shared by create and update
type JobFields struct {
	Description    *string `json:"description"`
	Priority       *string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Address        *string `json:"address"`
	ClientID       *string `json:"client_id" binding:"omitempty,uuid"`
	PropertyID     *string `json:"property_id" binding:"omitempty,uuid"`
	AssignedTo     *string `json:"assigned_to" binding:"omitempty,uuid"`
	ScheduledStart *string `json:"scheduled_start" example:"2026-03-02T09:00:00+11:00"`
	ScheduledEnd   *string `json:"scheduled_end" example:"2026-03-02T11:00:00+11:00"`
}

// CreateJobRequest is the body for creating a job
type CreateJobRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Title          string `json:"title" binding:"required,max=255" example:"Kitchen Renovation"`
	JobType        string `json:"job_type" binding:"omitempty,oneof=repair installation maintenance inspection quote_visit emergency other" example:"repair"`
	JobFields
}

// UpdateJobRequest is a partial job update
type UpdateJobRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	JobType *string `json:"job_type" binding:"omitempty,oneof=repair installation maintenance inspection quote_visit emergency other"`
	Status  *string `json:"status" binding:"omitempty,oneof=pending scheduled in_progress on_hold completed cancelled"`
	// Clears scheduled_start and scheduled_end
	ClearSchedule bool `json:"clear_schedule"`
	JobFields
}

// CompleteJobRequest carries the completion notes
type CompleteJobRequest struct {
	Notes string `json:"notes" binding:"max=10000"`
}

// SendReportRequest names the report recipient; the client's email is used when empty
type SendReportRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

func (f JobFields) patch() (job.Patch, error) {
	p := job.Patch{Description: f.Description, Address: f.Address}
	if f.Priority != nil {
		pr := job.Priority(*f.Priority)
		p.Priority = &pr
	}
	var err error
	if p.ClientID, err = optionalUUID("client_id", f.ClientID); err != nil {
		return p, err
	}
	if p.PropertyID, err = optionalUUID("property_id", f.PropertyID); err != nil {
		return p, err
	}
	if p.AssignedTo, err = optionalUUID("assigned_to", f.AssignedTo); err != nil {
		return p, err
	}
	if p.ScheduledStart, err = optionalDate("scheduled_start", f.ScheduledStart); err != nil {
		return p, err
	}
	if p.ScheduledEnd, err = optionalDate("scheduled_end", f.ScheduledEnd); err != nil {
		return p, err
	}
	return p, nil
}

func (r UpdateJobRequest) patch() (job.Patch, error) {
	p, err := r.JobFields.patch()
	if err != nil {
		return p, err
	}
	p.Title = r.Title
	p.ClearSchedule = r.ClearSchedule
	if r.JobType != nil {
		t := job.Type(*r.JobType)
		p.JobType = &t
	}
	if r.Status != nil {
		s := job.Status(*r.Status)
		p.Status = &s
	}
	return p, nil
}

// JobResponse is a job
// @Description Job
type JobResponse struct {
	ID              string  `json:"id"`
	OrganizationID  string  `json:"organization_id"`
	ClientID        *string `json:"client_id"`
	PropertyID      *string `json:"property_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	JobType         string  `json:"job_type"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	Address         string  `json:"address"`
	ScheduledStart  *string `json:"scheduled_start"`
	ScheduledEnd    *string `json:"scheduled_end"`
	AssignedTo      *string `json:"assigned_to"`
	CompletedAt     *string `json:"completed_at"`
	CompletionNotes string  `json:"completion_notes"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toJobResponse(j *job.Job) JobResponse {
	return JobResponse{
		ID:              j.ID.String(),
		OrganizationID:  j.OrganizationID.String(),
		ClientID:        uuidString(j.ClientID),
		PropertyID:      uuidString(j.PropertyID),
		Title:           j.Title,
		Description:     j.Description,
		JobType:         string(j.JobType),
		Status:          string(j.Status),
		Priority:        string(j.Priority),
		Address:         j.Address,
		ScheduledStart:  formatTime(j.ScheduledStart),
		ScheduledEnd:    formatTime(j.ScheduledEnd),
		AssignedTo:      uuidString(j.AssignedTo),
		CompletedAt:     formatTime(j.CompletedAt),
		CompletionNotes: j.CompletionNotes,
		CreatedBy:       j.CreatedBy.String(),
		CreatedAt:       *formatTime(&j.CreatedAt),
		UpdatedAt:       *formatTime(&j.UpdatedAt),
	}
}

package handler

import (
	"time"

	"github.com/fieldline/backend/internal/domain/schedule"
)

// FeedRequest are the query parameters of the appointment feed
type FeedRequest struct {
	OrganizationID  string `form:"organization_id" binding:"omitempty,uuid"`
	StartDate       string `form:"start_date" example:"2026-03-02"`
	EndDate         string `form:"end_date" example:"2026-03-09"`
	AssignedTo      string `form:"assigned_to" binding:"omitempty,uuid"`
	IncludeExternal *bool  `form:"include_external"`
}

// FeedEntryResponse is one item of the merged calendar
// @Description Calendar entry from any source
type FeedEntryResponse struct {
	ID             string    `json:"id" example:"tc-88213"`
	Source         string    `json:"source" enums:"appointment,job,asset_register_job,third_party"`
	OrganizationID *string   `json:"organization_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AssignedTo     *string   `json:"assigned_to"`
	AssigneeName   string    `json:"assignee_name"`
	ClientID       *string   `json:"client_id"`
	ClientName     string    `json:"client_name"`
	JobID          *string   `json:"job_id"`
	Status         string    `json:"status"`
}

func toFeedResponse(entries []schedule.Entry) []FeedEntryResponse {
	out := make([]FeedEntryResponse, len(entries))
	for i := range entries {
		e := &entries[i]
		out[i] = FeedEntryResponse{
			ID:             e.ID,
			Source:         string(e.Source),
			OrganizationID: uuidString(e.OrganizationID),
			Title:          e.Title,
			Description:    e.Description,
			Location:       e.Location,
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			AssignedTo:     uuidString(e.AssignedTo),
			AssigneeName:   e.AssigneeName,
			ClientID:       uuidString(e.ClientID),
			ClientName:     e.ClientName,
			JobID:          uuidString(e.JobID),
			Status:         e.Status,
		}
	}
	return out
}

// AppointmentFields are the optional appointment fields
type AppointmentFields struct {
	Description *string `json:"description"`
	Location    *string `json:"location"`
	AssignedTo  *string `json:"assigned_to" binding:"omitempty,uuid"`
	ClientID    *string `json:"client_id" binding:"omitempty,uuid"`
	JobID       *string `json:"job_id" binding:"omitempty,uuid"`
}

// CreateAppointmentRequest books an appointment
type CreateAppointmentRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Title          string `json:"title" binding:"required,max=255"`
	StartTime      string `json:"start_time" binding:"required" example:"2026-03-02T09:00:00+11:00"`
	EndTime        string `json:"end_time" binding:"required" example:"2026-03-02T10:00:00+11:00"`
	AppointmentFields
}

// UpdateAppointmentRequest is a partial appointment update
type UpdateAppointmentRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled"`
	AppointmentFields
}

func (f AppointmentFields) patch() (schedule.AppointmentPatch, error) {
	p := schedule.AppointmentPatch{Description: f.Description, Location: f.Location}
	var err error
	if p.AssignedTo, err = optionalUUID("assigned_to", f.AssignedTo); err != nil {
		return p, err
	}
	if p.ClientID, err = optionalUUID("client_id", f.ClientID); err != nil {
		return p, err
	}
	if p.JobID, err = optionalUUID("job_id", f.JobID); err != nil {
		return p, err
	}
	return p, nil
}

func (r UpdateAppointmentRequest) patch() (schedule.AppointmentPatch, error) {
	p, err := r.AppointmentFields.patch()
	if err != nil {
		return p, err
	}
	p.Title = r.Title
	if p.StartTime, err = optionalDate("start_time", r.StartTime); err != nil {
		return p, err
	}
	if p.EndTime, err = optionalDate("end_time", r.EndTime); err != nil {
		return p, err
	}
	if r.Status != nil {
		s := schedule.AppointmentStatus(*r.Status)
		p.Status = &s
	}
	return p, nil
}

// AppointmentResponse is a native appointment
// @Description Appointment
type AppointmentResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	ClientID       *string   `json:"client_id"`
	JobID          *string   `json:"job_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AssignedTo     *string   `json:"assigned_to"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      string    `json:"created_at"`
}

func toAppointmentResponse(a *schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		ClientID:       uuidString(a.ClientID),
		JobID:          uuidString(a.JobID),
		Title:          a.Title,
		Description:    a.Description,
		Location:       a.Location,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		AssignedTo:     uuidString(a.AssignedTo),
		Status:         string(a.Status),
		CreatedBy:      a.CreatedBy.String(),
		CreatedAt:      *formatTime(&a.CreatedAt),
	}
}

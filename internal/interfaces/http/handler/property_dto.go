package handler

import (
	"github.com/fieldline/backend/internal/domain/property"
)

// PropertyFields are the optional property fields
type PropertyFields struct {
	ClientID *string `json:"client_id" binding:"omitempty,uuid"`
	Notes    *string `json:"notes" binding:"omitempty,max=5000"`
}

// CreatePropertyRequest adds a property
type CreatePropertyRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required,max=200" example:"Harbour View Apartments"`
	Address        string `json:"address" binding:"required" example:"12 Wharf St, Sydney NSW 2000"`
	PropertyFields
}

// UpdatePropertyRequest is a partial property update
type UpdatePropertyRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,min=1"`
	PropertyFields
}

func (r UpdatePropertyRequest) patch() (property.PropertyPatch, error) {
	clientID, err := optionalUUID("client_id", r.ClientID)
	if err != nil {
		return property.PropertyPatch{}, err
	}
	return property.PropertyPatch{ClientID: clientID, Name: r.Name, Address: r.Address, Notes: r.Notes}, nil
}

// PropertyResponse is a property
// @Description Property
type PropertyResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	ClientID       *string `json:"client_id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Notes          string  `json:"notes"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		ClientID:       uuidString(p.ClientID),
		Name:           p.Name,
		Address:        p.Address,
		Notes:          p.Notes,
		CreatedAt:      *formatTime(&p.CreatedAt),
		UpdatedAt:      *formatTime(&p.UpdatedAt),
	}
}

// AssetRequest creates or updates an asset. Name is required on create.
type AssetRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200" example:"Ducted AC unit"`
	AssetType    *string `json:"asset_type" binding:"omitempty,max=100"`
	Make         *string `json:"make" binding:"omitempty,max=100"`
	Model        *string `json:"model" binding:"omitempty,max=100"`
	SerialNumber *string `json:"serial_number" binding:"omitempty,max=100"`
	InstalledAt  *string `json:"installed_at" example:"2023-11-02"`
	Notes        *string `json:"notes"`
}

func (r AssetRequest) patch() (property.AssetPatch, error) {
	installed, err := optionalDate("installed_at", r.InstalledAt)
	if err != nil {
		return property.AssetPatch{}, err
	}
	return property.AssetPatch{
		Name:         r.Name,
		AssetType:    r.AssetType,
		Make:         r.Make,
		Model:        r.Model,
		SerialNumber: r.SerialNumber,
		InstalledAt:  installed,
		Notes:        r.Notes,
	}, nil
}

// AssetResponse is a register asset
// @Description Asset installed at a property
type AssetResponse struct {
	ID           string  `json:"id"`
	PropertyID   string  `json:"property_id"`
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	SerialNumber string  `json:"serial_number"`
	InstalledAt  *string `json:"installed_at"`
	Notes        string  `json:"notes"`
}

func toAssetResponse(a *property.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID.String(),
		PropertyID:   a.PropertyID.String(),
		Name:         a.Name,
		AssetType:    a.AssetType,
		Make:         a.Make,
		Model:        a.Model,
		SerialNumber: a.SerialNumber,
		InstalledAt:  formatOptionalDate(a.InstalledAt),
		Notes:        a.Notes,
	}
}

// AssetJobFields are the optional asset-register job fields
type AssetJobFields struct {
	AssetID          *string `json:"asset_id" binding:"omitempty,uuid"`
	ScheduledDate    *string `json:"scheduled_date" example:"2026-04-01T08:00:00+11:00"`
	DurationMinutes  *int    `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	AssignedTo       *string `json:"assigned_to" binding:"omitempty,uuid"`
	RecurrenceMonths *int    `json:"recurrence_months" binding:"omitempty,min=0,max=120"`
	Notes            *string `json:"notes"`
}

func (f AssetJobFields) patch() (property.AssetJobPatch, error) {
	p := property.AssetJobPatch{DurationMinutes: f.DurationMinutes, RecurrenceMonths: f.RecurrenceMonths, Notes: f.Notes}
	var err error
	if p.AssetID, err = optionalUUID("asset_id", f.AssetID); err != nil {
		return p, err
	}
	if p.AssignedTo, err = optionalUUID("assigned_to", f.AssignedTo); err != nil {
		return p, err
	}
	if p.ScheduledDate, err = optionalDate("scheduled_date", f.ScheduledDate); err != nil {
		return p, err
	}
	return p, nil
}

// CreateAssetJobRequest schedules work against the asset register
type CreateAssetJobRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	Title      string `json:"title" binding:"required,max=255" example:"Annual smoke alarm check"`
	JobType    string `json:"job_type" binding:"omitempty,oneof=inspection maintenance service"`
	AssetJobFields
}

// UpdateAssetJobRequest is a partial asset job update. Setting cancel
// marks the job cancelled.
type UpdateAssetJobRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	JobType *string `json:"job_type" binding:"omitempty,oneof=inspection maintenance service"`
	Cancel  bool    `json:"cancel"`
	AssetJobFields
}

func (r UpdateAssetJobRequest) patch() (property.AssetJobPatch, error) {
	p, err := r.AssetJobFields.patch()
	if err != nil {
		return p, err
	}
	p.Title = r.Title
	p.Cancel = r.Cancel
	if r.JobType != nil {
		t := property.AssetJobType(*r.JobType)
		p.JobType = &t
	}
	return p, nil
}

// AssetJobResponse is an asset-register job
// @Description Asset-register job
type AssetJobResponse struct {
	ID               string  `json:"id"`
	OrganizationID   string  `json:"organization_id"`
	PropertyID       string  `json:"property_id"`
	AssetID          *string `json:"asset_id"`
	Title            string  `json:"title"`
	JobType          string  `json:"job_type"`
	Status           string  `json:"status"`
	ScheduledDate    *string `json:"scheduled_date"`
	DurationMinutes  int     `json:"duration_minutes"`
	AssignedTo       *string `json:"assigned_to"`
	RecurrenceMonths int     `json:"recurrence_months"`
	Notes            string  `json:"notes"`
	CompletedAt      *string `json:"completed_at"`
}

func toAssetJobResponse(j *property.AssetRegisterJob) AssetJobResponse {
	return AssetJobResponse{
		ID:               j.ID.String(),
		OrganizationID:   j.OrganizationID.String(),
		PropertyID:       j.PropertyID.String(),
		AssetID:          uuidString(j.AssetID),
		Title:            j.Title,
		JobType:          string(j.JobType),
		Status:           string(j.Status),
		ScheduledDate:    formatTime(j.ScheduledDate),
		DurationMinutes:  j.DurationMinutes,
		AssignedTo:       uuidString(j.AssignedTo),
		RecurrenceMonths: j.RecurrenceMonths,
		Notes:            j.Notes,
		CompletedAt:      formatTime(j.CompletedAt),
	}
}

// CompleteAssetJobResponse carries the completed job and, for recurring
// work, the next occurrence
type CompleteAssetJobResponse struct {
	Completed AssetJobResponse  `json:"completed"`
	Next      *AssetJobResponse `json:"next"`
}

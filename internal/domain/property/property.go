package property

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Property is a site where work is performed
type Property struct {
	shared.TenantEntity
	ClientID *uuid.UUID `gorm:"type:uuid;index"`
	Name     string     `gorm:"type:varchar(200);not null"`
	Address  string     `gorm:"type:text;not null"`
	Notes    string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a property
func NewProperty(organizationID uuid.UUID, name, address string) (*Property, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	if address == "" {
		return nil, shared.InvalidInput("address is required")
	}
	return &Property{
		TenantEntity: shared.NewTenantEntity(organizationID),
		Name:         name,
		Address:      address,
	}, nil
}

// Asset is a piece of equipment installed at a property
type Asset struct {
	shared.TenantEntity
	PropertyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"type:varchar(200);not null"`
	AssetType    string     `gorm:"type:varchar(100)"`
	Make         string     `gorm:"type:varchar(100)"`
	Model        string     `gorm:"type:varchar(100)"`
	SerialNumber string     `gorm:"type:varchar(100)"`
	InstalledAt  *time.Time `gorm:"type:date"`
	Notes        string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates an asset on a property
func NewAsset(p *Property, name string) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	return &Asset{
		TenantEntity: shared.NewTenantEntity(p.OrganizationID),
		PropertyID:   p.ID,
		Name:         name,
	}, nil
}

// AssetJobStatus is the state of an asset-register job
type AssetJobStatus string

const (
	AssetJobActive    AssetJobStatus = "active"
	AssetJobCompleted AssetJobStatus = "completed"
	AssetJobCancelled AssetJobStatus = "cancelled"
)

// AssetJobType classifies an asset-register job
type AssetJobType string

const (
	AssetJobInspection  AssetJobType = "inspection"
	AssetJobMaintenance AssetJobType = "maintenance"
	AssetJobService     AssetJobType = "service"
)

// IsValid reports whether the type is known
func (t AssetJobType) IsValid() bool {
	switch t {
	case AssetJobInspection, AssetJobMaintenance, AssetJobService:
		return true
	}
	return false
}

// DefaultAssetJobMinutes is the calendar length of an asset job with no duration
const DefaultAssetJobMinutes = 60

// AssetRegisterJob is a scheduled maintenance or inspection task on the asset register
type AssetRegisterJob struct {
	shared.TenantEntity
	PropertyID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	AssetID          *uuid.UUID     `gorm:"type:uuid;index"`
	Title            string         `gorm:"type:varchar(255);not null"`
	JobType          AssetJobType   `gorm:"type:varchar(30);not null;default:'inspection'"`
	Status           AssetJobStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ScheduledDate    *time.Time
	DurationMinutes  int        `gorm:"not null;default:60"`
	AssignedTo       *uuid.UUID `gorm:"type:uuid;index"`
	RecurrenceMonths int        `gorm:"not null;default:0"`
	Notes            string     `gorm:"type:text"`
	CompletedAt      *time.Time
}

// TableName returns the table name for GORM
func (AssetRegisterJob) TableName() string {
	return "asset_register_jobs"
}

// NewAssetRegisterJob creates an active asset-register job on a property
func NewAssetRegisterJob(p *Property, title string, jobType AssetJobType) (*AssetRegisterJob, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidInput("title is required")
	}
	if jobType == "" {
		jobType = AssetJobInspection
	}
	if !jobType.IsValid() {
		return nil, shared.InvalidInput("job_type is not valid")
	}
	return &AssetRegisterJob{
		TenantEntity:    shared.NewTenantEntity(p.OrganizationID),
		PropertyID:      p.ID,
		Title:           title,
		JobType:         jobType,
		Status:          AssetJobActive,
		DurationMinutes: DefaultAssetJobMinutes,
	}, nil
}

// Duration returns the calendar length of the job
func (j *AssetRegisterJob) Duration() time.Duration {
	if j.DurationMinutes <= 0 {
		return DefaultAssetJobMinutes * time.Minute
	}
	return time.Duration(j.DurationMinutes) * time.Minute
}

// Complete closes the job. For recurring jobs it returns the next occurrence.
func (j *AssetRegisterJob) Complete(now time.Time) (*AssetRegisterJob, error) {
	if j.Status != AssetJobActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Only active asset jobs can be completed")
	}
	j.Status = AssetJobCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now

	if j.RecurrenceMonths <= 0 {
		return nil, nil
	}
	base := now
	if j.ScheduledDate != nil {
		base = *j.ScheduledDate
	}
	nextDate := addMonths(base, j.RecurrenceMonths)
	next := *j
	next.TenantEntity = shared.NewTenantEntity(j.OrganizationID)
	next.Status = AssetJobActive
	next.ScheduledDate = &nextDate
	next.CompletedAt = nil
	return &next, nil
}

// addMonths moves t forward by months, keeping the day of month but clamping
// it to the last day of a shorter target month (31 Jan + 1 is 28 or 29 Feb).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// Cancel stops the job appearing on the calendar
func (j *AssetRegisterJob) Cancel() {
	j.Status = AssetJobCancelled
	j.Touch()
}

// PropertyPatch holds optional property updates
type PropertyPatch struct {
	ClientID *uuid.UUID
	Name     *string
	Address  *string
	Notes    *string
}

// Apply updates the property
func (p *Property) Apply(patch PropertyPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return shared.InvalidInput("name cannot be empty")
		}
		p.Name = name
	}
	if patch.Address != nil {
		addr := strings.TrimSpace(*patch.Address)
		if addr == "" {
			return shared.InvalidInput("address cannot be empty")
		}
		p.Address = addr
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.ClientID != nil {
		p.ClientID = patch.ClientID
	}
	p.Touch()
	return nil
}

// AssetPatch holds optional asset updates
type AssetPatch struct {
	Name         *string
	AssetType    *string
	Make         *string
	Model        *string
	SerialNumber *string
	InstalledAt  *time.Time
	Notes        *string
}

// Apply updates the asset
func (a *Asset) Apply(p AssetPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return shared.InvalidInput("name cannot be empty")
		}
		a.Name = name
	}
	for dst, src := range map[*string]*string{
		&a.AssetType:    p.AssetType,
		&a.Make:         p.Make,
		&a.Model:        p.Model,
		&a.SerialNumber: p.SerialNumber,
		&a.Notes:        p.Notes,
	} {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	if p.InstalledAt != nil {
		a.InstalledAt = p.InstalledAt
	}
	a.Touch()
	return nil
}

// AssetJobPatch holds optional asset-register job updates
type AssetJobPatch struct {
	AssetID          *uuid.UUID
	Title            *string
	JobType          *AssetJobType
	ScheduledDate    *time.Time
	DurationMinutes  *int
	AssignedTo       *uuid.UUID
	RecurrenceMonths *int
	Notes            *string
	Cancel           bool
}

// Apply updates an asset-register job. Completed jobs are read only.
func (j *AssetRegisterJob) Apply(p AssetJobPatch) error {
	if j.Status == AssetJobCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed asset jobs cannot be changed")
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return shared.InvalidInput("title cannot be empty")
		}
		j.Title = title
	}
	if p.JobType != nil {
		if !p.JobType.IsValid() {
			return shared.InvalidInput("job_type is not valid")
		}
		j.JobType = *p.JobType
	}
	if p.DurationMinutes != nil {
		if *p.DurationMinutes <= 0 {
			return shared.InvalidInput("duration_minutes must be positive")
		}
		j.DurationMinutes = *p.DurationMinutes
	}
	if p.RecurrenceMonths != nil {
		if *p.RecurrenceMonths < 0 {
			return shared.InvalidInput("recurrence_months cannot be negative")
		}
		j.RecurrenceMonths = *p.RecurrenceMonths
	}
	if p.AssetID != nil {
		j.AssetID = p.AssetID
	}
	if p.ScheduledDate != nil {
		j.ScheduledDate = p.ScheduledDate
	}
	if p.AssignedTo != nil {
		j.AssignedTo = p.AssignedTo
	}
	if p.Notes != nil {
		j.Notes = *p.Notes
	}
	if p.Cancel {
		j.Cancel()
	}
	j.Touch()
	return nil
}

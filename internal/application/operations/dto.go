// Package operations holds the day-to-day work services: clients, jobs,
// properties with their asset register, and job completion reports.
package operations

import (
	"time"

	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListQuery narrows a list to one organization when set
type ListQuery struct {
	OrganizationID *uuid.UUID
	Filter         shared.Filter
}

// CreateClientInput contains the input for creating a client
type CreateClientInput struct {
	OrganizationID uuid.UUID
	Name           string
	Patch          client.Patch
}

// CreateJobInput contains the input for creating a job
type CreateJobInput struct {
	OrganizationID uuid.UUID
	Title          string
	JobType        job.Type
	Patch          job.Patch
}

// CreatePropertyInput contains the input for creating a property
type CreatePropertyInput struct {
	OrganizationID uuid.UUID
	Name           string
	Address        string
	Patch          property.PropertyPatch
}

// CreateAssetInput contains the input for adding an asset to a property
type CreateAssetInput struct {
	Name  string
	Patch property.AssetPatch
}

// CreateAssetJobInput contains the input for an asset-register job
type CreateAssetJobInput struct {
	PropertyID uuid.UUID
	Title      string
	JobType    property.AssetJobType
	Patch      property.AssetJobPatch
}

// ReportDelivery is the outcome of emailing a job report
type ReportDelivery struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	EmailID     string    `json:"email_id"`
	SentTo      string    `json:"sent_to"`
}

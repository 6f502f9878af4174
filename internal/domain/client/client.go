package client

import (
	"strings"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client is a customer of the business
type Client struct {
	shared.TenantEntity
	Name       string `gorm:"type:varchar(200);not null"`
	Email      string `gorm:"type:varchar(255);index"`
	Phone      string `gorm:"type:varchar(50)"`
	Address    string `gorm:"type:text"`
	Notes      string `gorm:"type:text"`
	IsArchived bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a client in an organization
func NewClient(organizationID uuid.UUID, name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	if len(name) > 200 {
		return nil, shared.InvalidInput("name cannot exceed 200 characters")
	}
	return &Client{
		TenantEntity: shared.NewTenantEntity(organizationID),
		Name:         name,
	}, nil
}

// Patch holds optional client updates
type Patch struct {
	Name       *string
	Email      *string
	Phone      *string
	Address    *string
	Notes      *string
	IsArchived *bool
}

// Apply updates the client
func (c *Client) Apply(p Patch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return shared.InvalidInput("name cannot be empty")
		}
		c.Name = name
	}
	if p.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.IsArchived != nil {
		c.IsArchived = *p.IsArchived
	}
	c.Touch()
	return nil
}

package integration

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for integration connections
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)
	// FindForUser returns the user's connection to a provider in any organization
	FindForUser(ctx context.Context, userID uuid.UUID, provider Provider) (*Connection, error)
	FindForOrganization(ctx context.Context, organizationID uuid.UUID, provider Provider) (*Connection, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]Connection, error)
	Save(ctx context.Context, c *Connection) error
}

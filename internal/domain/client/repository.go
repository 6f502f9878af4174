package client

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for client persistence
type Repository interface {
	// FindByID returns the client only if the user is an active member of its organization
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Client, error)
	// FindInOrganization skips the membership check. Public document pages use
	// it after the document itself was authorized by token.
	FindInOrganization(ctx context.Context, organizationID, id uuid.UUID) (*Client, error)
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Client, int64, error)
	Save(ctx context.Context, c *Client) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

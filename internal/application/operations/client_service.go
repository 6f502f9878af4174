package operations

import (
	"context"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService manages an organization's customers
type ClientService struct {
	clients client.Repository
	access  *appidentity.Access
	logger  *zap.Logger
}

// NewClientService creates a client service
func NewClientService(clients client.Repository, access *appidentity.Access, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, access: access, logger: logger}
}

// List returns clients visible to the user
func (s *ClientService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[client.Client], error) {
	if q.OrganizationID != nil {
		if _, err := s.access.Member(ctx, *q.OrganizationID, userID); err != nil {
			return shared.Paginated[client.Client]{}, err
		}
	}
	q.Filter.Normalize()
	items, total, err := s.clients.List(ctx, shared.NewScope(userID, q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[client.Client]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

// Get returns a client the user can see
func (s *ClientService) Get(ctx context.Context, userID, id uuid.UUID) (*client.Client, error) {
	return s.clients.FindByID(ctx, shared.NewScope(userID, nil), id)
}

// Create adds a client. Any active member may do this.
func (s *ClientService) Create(ctx context.Context, userID uuid.UUID, in CreateClientInput) (*client.Client, error) {
	if _, err := s.access.Member(ctx, in.OrganizationID, userID); err != nil {
		return nil, err
	}
	c, err := client.NewClient(in.OrganizationID, in.Name)
	if err != nil {
		return nil, err
	}
	in.Patch.Name = nil
	if err := c.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Client created", zap.String("client_id", c.ID.String()), zap.String("organization_id", c.OrganizationID.String()))
	return c, nil
}

// Update changes a client's details
func (s *ClientService) Update(ctx context.Context, userID, id uuid.UUID, patch client.Patch) (*client.Client, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Member(ctx, c.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := c.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a client. Admins only; jobs and documents keep their rows
// with the client reference cleared.
func (s *ClientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireAdmin(ctx, c.OrganizationID, userID); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, c.OrganizationID, c.ID); err != nil {
		return err
	}
	s.logger.Info("Client deleted", zap.String("client_id", id.String()))
	return nil
}

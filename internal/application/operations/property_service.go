package operations

import (
	"context"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyService manages sites and the equipment installed at them
type PropertyService struct {
	properties property.Repository
	clients    client.Repository
	access     *appidentity.Access
	logger     *zap.Logger
}

// NewPropertyService creates a property service
func NewPropertyService(properties property.Repository, clients client.Repository, access *appidentity.Access, logger *zap.Logger) *PropertyService {
	return &PropertyService{properties: properties, clients: clients, access: access, logger: logger}
}

func (s *PropertyService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[property.Property], error) {
	if q.OrganizationID != nil {
		if _, err := s.access.Member(ctx, *q.OrganizationID, userID); err != nil {
			return shared.Paginated[property.Property]{}, err
		}
	}
	q.Filter.Normalize()
	items, total, err := s.properties.List(ctx, shared.NewScope(userID, q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[property.Property]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

func (s *PropertyService) Get(ctx context.Context, userID, id uuid.UUID) (*property.Property, error) {
	return s.properties.FindByID(ctx, shared.NewScope(userID, nil), id)
}

func (s *PropertyService) Create(ctx context.Context, userID uuid.UUID, in CreatePropertyInput) (*property.Property, error) {
	if _, err := s.access.Member(ctx, in.OrganizationID, userID); err != nil {
		return nil, err
	}
	p, err := property.NewProperty(in.OrganizationID, in.Name, in.Address)
	if err != nil {
		return nil, err
	}
	if err := s.checkClient(ctx, userID, in.OrganizationID, in.Patch.ClientID); err != nil {
		return nil, err
	}
	in.Patch.Name, in.Patch.Address = nil, nil
	if err := p.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) Update(ctx context.Context, userID, id uuid.UUID, patch property.PropertyPatch) (*property.Property, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Member(ctx, p.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := s.checkClient(ctx, userID, p.OrganizationID, patch.ClientID); err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a property with its assets and asset jobs. Admins only.
func (s *PropertyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireAdmin(ctx, p.OrganizationID, userID); err != nil {
		return err
	}
	return s.properties.Delete(ctx, p.OrganizationID, p.ID)
}

// ListAssets returns the equipment at a property
func (s *PropertyService) ListAssets(ctx context.Context, userID, propertyID uuid.UUID) ([]property.Asset, error) {
	p, err := s.Get(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	return s.properties.ListAssets(ctx, p.ID)
}

func (s *PropertyService) CreateAsset(ctx context.Context, userID, propertyID uuid.UUID, in CreateAssetInput) (*property.Asset, error) {
	p, err := s.Get(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Member(ctx, p.OrganizationID, userID); err != nil {
		return nil, err
	}
	a, err := property.NewAsset(p, in.Name)
	if err != nil {
		return nil, err
	}
	in.Patch.Name = nil
	if err := a.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.properties.SaveAsset(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PropertyService) UpdateAsset(ctx context.Context, userID, id uuid.UUID, patch property.AssetPatch) (*property.Asset, error) {
	a, err := s.properties.FindAsset(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Member(ctx, a.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := a.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.properties.SaveAsset(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PropertyService) DeleteAsset(ctx context.Context, userID, id uuid.UUID) error {
	a, err := s.properties.FindAsset(ctx, shared.NewScope(userID, nil), id)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireAdmin(ctx, a.OrganizationID, userID); err != nil {
		return err
	}
	return s.properties.DeleteAsset(ctx, a.OrganizationID, a.ID)
}

func (s *PropertyService) checkClient(ctx context.Context, userID, orgID uuid.UUID, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	if _, err := s.clients.FindByID(ctx, shared.NewScope(userID, &orgID), *clientID); err != nil {
		return referenceError(err, "client_id")
	}
	return nil
}

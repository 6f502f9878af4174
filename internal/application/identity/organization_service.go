package identity

import (
	"context"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrganizationService manages organizations and their profiles
type OrganizationService struct {
	orgs     identity.OrganizationRepository
	access   *Access
	defaults OrganizationDefaults
	logger   *zap.Logger
}

// NewOrganizationService creates an organization service
func NewOrganizationService(orgs identity.OrganizationRepository, access *Access, defaults OrganizationDefaults, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{orgs: orgs, access: access, defaults: defaults, logger: logger}
}

// List returns organizations the user is an active member of
func (s *OrganizationService) List(ctx context.Context, userID uuid.UUID) ([]identity.Organization, error) {
	return s.orgs.FindForUser(ctx, userID)
}

// Create makes a new organization owned by the user
func (s *OrganizationService) Create(ctx context.Context, userID uuid.UUID, in CreateOrganizationInput) (*identity.Organization, error) {
	org, err := identity.NewOrganization(in.Name)
	if err != nil {
		return nil, err
	}
	if s.defaults.GSTRate.IsPositive() {
		org.DefaultGSTRate = s.defaults.GSTRate
	}
	if s.defaults.PaymentTerms > 0 {
		org.PaymentTerms = s.defaults.PaymentTerms
	}
	patch := identity.OrganizationPatch{ABN: &in.ABN, Email: &in.Email, Phone: &in.Phone, Address: &in.Address}
	if err := org.Apply(patch); err != nil {
		return nil, err
	}

	owner := identity.NewOwnerMember(org.ID, userID)
	if err := s.orgs.CreateWithOwner(ctx, org, owner); err != nil {
		return nil, err
	}
	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("owner_id", userID.String()))
	return org, nil
}

// Get returns an organization the user belongs to
func (s *OrganizationService) Get(ctx context.Context, userID, orgID uuid.UUID) (*identity.Organization, error) {
	if _, err := s.access.Member(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return s.orgs.FindByID(ctx, orgID)
}

// Update changes the organization profile. Admins only.
func (s *OrganizationService) Update(ctx context.Context, userID, orgID uuid.UUID, patch identity.OrganizationPatch) (*identity.Organization, error) {
	if _, err := s.access.RequireAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := org.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

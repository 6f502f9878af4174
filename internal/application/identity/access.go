package identity

import (
	"context"
	"errors"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Access resolves a user's membership in an organization and checks
// capability flags. Every write in the application layer goes through it.
type Access struct {
	members identity.MemberRepository
}

// NewAccess creates an access checker
func NewAccess(members identity.MemberRepository) *Access {
	return &Access{members: members}
}

// Member returns the user's active membership or ErrForbidden
func (a *Access) Member(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	if organizationID == uuid.Nil {
		return nil, shared.InvalidInput("organization_id is required")
	}
	m, err := a.members.FindActive(ctx, organizationID, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.Forbidden("You are not a member of this organization")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Require returns the membership when it holds the capability
func (a *Access) Require(ctx context.Context, organizationID, userID uuid.UUID, c identity.Capability) (*identity.OrganizationMember, error) {
	m, err := a.Member(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if err := m.Require(c); err != nil {
		return nil, err
	}
	return m, nil
}

// RequireAdmin returns the membership when the user is an owner or admin
func (a *Access) RequireAdmin(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	m, err := a.Member(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, shared.Forbidden("Admin role required")
	}
	return m, nil
}

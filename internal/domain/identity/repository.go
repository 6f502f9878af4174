package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByAuthProviderID(ctx context.Context, providerID string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	// FindForUser returns organizations where the user is an active member
	FindForUser(ctx context.Context, userID uuid.UUID) ([]Organization, error)
	Save(ctx context.Context, org *Organization) error
	// CreateWithOwner inserts the organization and its owner membership atomically
	CreateWithOwner(ctx context.Context, org *Organization, owner *OrganizationMember) error
	// AddSMSCredits adjusts the credit balance and returns the new balance
	AddSMSCredits(ctx context.Context, id uuid.UUID, delta int) (int, error)
	// ConsumeSMSCredits decrements credits only when enough remain
	ConsumeSMSCredits(ctx context.Context, id uuid.UUID, n int) (bool, error)
}

// MemberRepository defines the interface for membership persistence
type MemberRepository interface {
	// FindActive returns the active membership of a user in an organization
	FindActive(ctx context.Context, organizationID, userID uuid.UUID) (*OrganizationMember, error)
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*OrganizationMember, error)
	FindByUser(ctx context.Context, organizationID, userID uuid.UUID) (*OrganizationMember, error)
	// ListVisible returns members excluding removed ones, with users preloaded
	ListVisible(ctx context.Context, organizationID uuid.UUID) ([]OrganizationMember, error)
	// ListActiveForUser returns all active memberships of a user
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]OrganizationMember, error)
	Save(ctx context.Context, member *OrganizationMember) error
}

package identity

import (
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// LoginInput contains the input for web and mobile login
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// Membership pairs an active membership with its organization
type Membership struct {
	Member       identity.OrganizationMember
	Organization identity.Organization
}

// Profile is the signed-in user with the organizations they can access
type Profile struct {
	User        *identity.User
	Memberships []Membership
}

// CreateOrganizationInput contains the input for creating an organization
type CreateOrganizationInput struct {
	Name    string
	ABN     string
	Email   string
	Phone   string
	Address string
}

// InviteMemberInput contains the input for adding a team member
type InviteMemberInput struct {
	Email    string
	FullName string
	Role     identity.MemberRole
	Patch    identity.MemberPatch
}

// TopUpInput adds purchased SMS credits
type TopUpInput struct {
	Credits int
}

// Defaults applied to new organizations
type OrganizationDefaults struct {
	GSTRate      decimal.Decimal
	PaymentTerms int
}

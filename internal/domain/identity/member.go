package identity

import (
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberRole is a member's role within an organization
type MemberRole string

const (
	RoleOwner         MemberRole = "owner"
	RoleAdmin         MemberRole = "admin"
	RoleMember        MemberRole = "member"
	RoleSubcontractor MemberRole = "subcontractor"
)

// IsValid reports whether the role is known
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleSubcontractor:
		return true
	}
	return false
}

// MemberStatus is the lifecycle state of a membership
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusInvited MemberStatus = "invited"
	MemberStatusRemoved MemberStatus = "removed" // Soft delete
)

// Capability is a per-member permission flag
type Capability string

const (
	CapCreateJobs     Capability = "can_create_jobs"
	CapEditJobs       Capability = "can_edit_jobs"
	CapDeleteJobs     Capability = "can_delete_jobs"
	CapCreateInvoices Capability = "can_create_invoices"
	CapViewFinancials Capability = "can_view_financials"
	CapManageTeam     Capability = "can_manage_team"
)

// OrganizationMember is a user's role, status and capability flags within one organization
type OrganizationMember struct {
	shared.TenantEntity
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	Role              MemberRole       `gorm:"type:varchar(20);not null;default:'member'"`
	Status            MemberStatus     `gorm:"type:varchar(20);not null;default:'active'"`
	CanCreateJobs     bool             `gorm:"not null;default:false"`
	CanEditJobs       bool             `gorm:"not null;default:false"`
	CanDeleteJobs     bool             `gorm:"not null;default:false"`
	CanCreateInvoices bool             `gorm:"not null;default:false"`
	CanViewFinancials bool             `gorm:"not null;default:false"`
	CanManageTeam     bool             `gorm:"not null;default:false"`
	Trade             string           `gorm:"type:varchar(100)"`
	HourlyRate        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	User              *User            `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (OrganizationMember) TableName() string {
	return "organization_members"
}

// NewOwnerMember creates the founding member of an organization
func NewOwnerMember(organizationID, userID uuid.UUID) *OrganizationMember {
	m := &OrganizationMember{
		TenantEntity: shared.NewTenantEntity(organizationID),
		UserID:       userID,
		Role:         RoleOwner,
		Status:       MemberStatusActive,
	}
	m.grantAll()
	return m
}

// NewInvitedMember creates a membership for an invited user
func NewInvitedMember(organizationID, userID uuid.UUID, role MemberRole) (*OrganizationMember, error) {
	if !role.IsValid() {
		return nil, shared.InvalidInput("role is not valid")
	}
	if role == RoleOwner {
		return nil, shared.InvalidInput("an organization can only have one owner")
	}
	m := &OrganizationMember{
		TenantEntity: shared.NewTenantEntity(organizationID),
		UserID:       userID,
		Role:         role,
		Status:       MemberStatusInvited,
	}
	if role == RoleAdmin {
		m.grantAll()
	}
	return m, nil
}

func (m *OrganizationMember) grantAll() {
	m.CanCreateJobs = true
	m.CanEditJobs = true
	m.CanDeleteJobs = true
	m.CanCreateInvoices = true
	m.CanViewFinancials = true
	m.CanManageTeam = true
}

// IsActive reports whether the membership grants access
func (m *OrganizationMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

// IsAdmin reports whether the member has an administrative role
func (m *OrganizationMember) IsAdmin() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}

// Can reports whether the member holds a capability. Admins hold all of them.
func (m *OrganizationMember) Can(c Capability) bool {
	if !m.IsActive() {
		return false
	}
	if m.IsAdmin() {
		return true
	}
	switch c {
	case CapCreateJobs:
		return m.CanCreateJobs
	case CapEditJobs:
		return m.CanEditJobs
	case CapDeleteJobs:
		return m.CanDeleteJobs
	case CapCreateInvoices:
		return m.CanCreateInvoices
	case CapViewFinancials:
		return m.CanViewFinancials
	case CapManageTeam:
		return m.CanManageTeam
	}
	return false
}

// Require returns ErrForbidden unless the member holds the capability
func (m *OrganizationMember) Require(c Capability) error {
	if !m.Can(c) {
		return shared.Forbidden("missing permission: " + string(c))
	}
	return nil
}

// Activate accepts an invite
func (m *OrganizationMember) Activate() {
	m.Status = MemberStatusActive
	m.Touch()
}

// Remove soft-deletes the membership
func (m *OrganizationMember) Remove() error {
	if m.Role == RoleOwner {
		return shared.NewDomainError("INVALID_STATE", "The organization owner cannot be removed")
	}
	m.Status = MemberStatusRemoved
	m.Touch()
	return nil
}

// MemberPatch holds optional member updates
type MemberPatch struct {
	Role              *MemberRole
	CanCreateJobs     *bool
	CanEditJobs       *bool
	CanDeleteJobs     *bool
	CanCreateInvoices *bool
	CanViewFinancials *bool
	CanManageTeam     *bool
	Trade             *string
	HourlyRate        *decimal.Decimal
}

// Apply updates role and flags. The owner role cannot be granted or revoked here.
func (m *OrganizationMember) Apply(p MemberPatch) error {
	if m.Status == MemberStatusRemoved {
		return shared.NewDomainError("INVALID_STATE", "Removed members cannot be updated")
	}
	if p.Role != nil {
		if !p.Role.IsValid() {
			return shared.InvalidInput("role is not valid")
		}
		if *p.Role == RoleOwner || m.Role == RoleOwner {
			if *p.Role != m.Role {
				return shared.InvalidInput("ownership cannot be changed")
			}
		}
		m.Role = *p.Role
	}
	setFlag(&m.CanCreateJobs, p.CanCreateJobs)
	setFlag(&m.CanEditJobs, p.CanEditJobs)
	setFlag(&m.CanDeleteJobs, p.CanDeleteJobs)
	setFlag(&m.CanCreateInvoices, p.CanCreateInvoices)
	setFlag(&m.CanViewFinancials, p.CanViewFinancials)
	setFlag(&m.CanManageTeam, p.CanManageTeam)
	if p.Trade != nil {
		m.Trade = *p.Trade
	}
	if p.HourlyRate != nil {
		if p.HourlyRate.IsNegative() {
			return shared.InvalidInput("hourly_rate cannot be negative")
		}
		rate := *p.HourlyRate
		m.HourlyRate = &rate
	}
	m.Touch()
	return nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

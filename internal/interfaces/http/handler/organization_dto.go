package handler

import (
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// CreateOrganizationRequest is the body for creating an organization
type CreateOrganizationRequest struct {
	Name    string `json:"name" binding:"required,max=200" example:"Nguyen Plumbing"`
	ABN     string `json:"abn" binding:"max=20" example:"51824753556"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address"`
}

// UpdateOrganizationRequest is a partial organization update
type UpdateOrganizationRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ABN            *string          `json:"abn" binding:"omitempty,max=20"`
	Email          *string          `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	Address        *string          `json:"address"`
	LogoURL        *string          `json:"logo_url" binding:"omitempty,url,max=500"`
	GSTRegistered  *bool            `json:"gst_registered"`
	DefaultGSTRate *decimal.Decimal `json:"default_gst_rate" swaggertype:"string" example:"0.10"`
	PaymentTerms   *int             `json:"payment_terms" binding:"omitempty,gte=0,lte=365"`
	BankDetails    *string          `json:"bank_details"`
}

func (r UpdateOrganizationRequest) patch() identity.OrganizationPatch {
	return identity.OrganizationPatch{
		Name:           r.Name,
		ABN:            r.ABN,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		LogoURL:        r.LogoURL,
		GSTRegistered:  r.GSTRegistered,
		DefaultGSTRate: r.DefaultGSTRate,
		PaymentTerms:   r.PaymentTerms,
		BankDetails:    r.BankDetails,
	}
}

// OrganizationResponse is an organization as seen by its members
// @Description Organization
type OrganizationResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ABN            string          `json:"abn"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	LogoURL        string          `json:"logo_url"`
	GSTRegistered  bool            `json:"gst_registered"`
	DefaultGSTRate decimal.Decimal `json:"default_gst_rate" swaggertype:"string"`
	PaymentTerms   int             `json:"payment_terms"`
	BankDetails    string          `json:"bank_details"`
	SMSCredits     int             `json:"sms_credits"`
	CreatedAt      string          `json:"created_at"`
}

func toOrganizationResponse(o *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:             o.ID.String(),
		Name:           o.Name,
		ABN:            o.ABN,
		Email:          o.Email,
		Phone:          o.Phone,
		Address:        o.Address,
		LogoURL:        o.LogoURL,
		GSTRegistered:  o.GSTRegistered,
		DefaultGSTRate: o.DefaultGSTRate,
		PaymentTerms:   o.PaymentTerms,
		BankDetails:    o.BankDetails,
		SMSCredits:     o.SMSCredits,
		CreatedAt:      *formatTime(&o.CreatedAt),
	}
}

// MemberPermissions are the capability flags of a membership
type MemberPermissions struct {
	CanCreateJobs     *bool `json:"can_create_jobs"`
	CanEditJobs       *bool `json:"can_edit_jobs"`
	CanDeleteJobs     *bool `json:"can_delete_jobs"`
	CanCreateInvoices *bool `json:"can_create_invoices"`
	CanViewFinancials *bool `json:"can_view_financials"`
	CanManageTeam     *bool `json:"can_manage_team"`
}

// InviteMemberRequest adds a person to the team by email
type InviteMemberRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	FullName string `json:"full_name" binding:"max=200"`
	Role     string `json:"role" binding:"omitempty,oneof=admin member subcontractor"`
	MemberPermissions
	Trade      *string          `json:"trade" binding:"omitempty,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
}

// UpdateMemberRequest changes a member's role or permissions
type UpdateMemberRequest struct {
	Role *string `json:"role" binding:"omitempty,oneof=owner admin member subcontractor"`
	MemberPermissions
	Trade      *string          `json:"trade" binding:"omitempty,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
}

func memberPatch(role *string, p MemberPermissions, trade *string, rate *decimal.Decimal) identity.MemberPatch {
	patch := identity.MemberPatch{
		CanCreateJobs:     p.CanCreateJobs,
		CanEditJobs:       p.CanEditJobs,
		CanDeleteJobs:     p.CanDeleteJobs,
		CanCreateInvoices: p.CanCreateInvoices,
		CanViewFinancials: p.CanViewFinancials,
		CanManageTeam:     p.CanManageTeam,
		Trade:             trade,
		HourlyRate:        rate,
	}
	if role != nil {
		r := identity.MemberRole(*role)
		patch.Role = &r
	}
	return patch
}

// MemberResponse is a team member with their permissions
// @Description Organization member
type MemberResponse struct {
	ID                string           `json:"id"`
	OrganizationID    string           `json:"organization_id"`
	UserID            string           `json:"user_id"`
	Role              string           `json:"role" enums:"owner,admin,member,subcontractor"`
	Status            string           `json:"status" enums:"active,invited,removed"`
	CanCreateJobs     bool             `json:"can_create_jobs"`
	CanEditJobs       bool             `json:"can_edit_jobs"`
	CanDeleteJobs     bool             `json:"can_delete_jobs"`
	CanCreateInvoices bool             `json:"can_create_invoices"`
	CanViewFinancials bool             `json:"can_view_financials"`
	CanManageTeam     bool             `json:"can_manage_team"`
	Trade             string           `json:"trade,omitempty"`
	HourlyRate        *decimal.Decimal `json:"hourly_rate,omitempty" swaggertype:"string"`
	User              *UserResponse    `json:"user,omitempty"`
}

func toMemberResponse(m *identity.OrganizationMember) MemberResponse {
	out := MemberResponse{
		ID:                m.ID.String(),
		OrganizationID:    m.OrganizationID.String(),
		UserID:            m.UserID.String(),
		Role:              string(m.Role),
		Status:            string(m.Status),
		CanCreateJobs:     m.CanCreateJobs,
		CanEditJobs:       m.CanEditJobs,
		CanDeleteJobs:     m.CanDeleteJobs,
		CanCreateInvoices: m.CanCreateInvoices,
		CanViewFinancials: m.CanViewFinancials,
		CanManageTeam:     m.CanManageTeam,
		Trade:             m.Trade,
		HourlyRate:        m.HourlyRate,
	}
	if m.User != nil {
		u := toUserResponse(m.User)
		out.User = &u
	}
	return out
}

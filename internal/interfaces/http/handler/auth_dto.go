package handler

import (
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/infrastructure/auth"
)

// LoginRequest is the body of web and mobile login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255" example:"tess@example.com"`
	Password string `json:"password" binding:"required,max=128" example:"correct horse battery"`
}

// RefreshTokenRequest is the body of a mobile token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse is a user as seen by themselves and their team
// @Description User account
type UserResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email       string  `json:"email" example:"tess@example.com"`
	FullName    string  `json:"full_name" example:"Tess Nguyen"`
	Phone       string  `json:"phone,omitempty" example:"+61400000000"`
	Status      string  `json:"status" example:"active" enums:"active,invited,disabled"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// WebLoginResponse is returned after the session cookie is set
type WebLoginResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// MobileLoginResponse carries the bearer token pair
type MobileLoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

// MembershipResponse is one organization the user belongs to
type MembershipResponse struct {
	Organization OrganizationResponse `json:"organization"`
	Member       MemberResponse       `json:"member"`
}

// MeResponse is the signed-in user with their organizations
type MeResponse struct {
	User          UserResponse         `json:"user"`
	Organizations []MembershipResponse `json:"organizations"`
}

func toUserResponse(u *identity.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Status:      string(u.Status),
		LastLoginAt: formatTime(u.LastLoginAt),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toMeResponse(p *appidentity.Profile) MeResponse {
	out := MeResponse{
		User:          toUserResponse(p.User),
		Organizations: make([]MembershipResponse, 0, len(p.Memberships)),
	}
	for i := range p.Memberships {
		m := &p.Memberships[i]
		out.Organizations = append(out.Organizations, MembershipResponse{
			Organization: toOrganizationResponse(&m.Organization),
			Member:       toMemberResponse(&m.Member),
		})
	}
	return out
}

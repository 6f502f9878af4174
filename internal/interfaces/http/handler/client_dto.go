package handler

import (
	"github.com/fieldline/backend/internal/domain/client"
)

// CreateClientRequest is the body for creating a client
type CreateClientRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required,max=200" example:"Harbour View Cafe"`
	Email          string `json:"email" binding:"omitempty,email,max=255"`
	Phone          string `json:"phone" binding:"max=50"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
}

// UpdateClientRequest is a partial client update
type UpdateClientRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
	IsArchived *bool   `json:"is_archived"`
}

func (r UpdateClientRequest) patch() client.Patch {
	return client.Patch{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		Notes:      r.Notes,
		IsArchived: r.IsArchived,
	}
}

// ClientResponse is a client of an organization
// @Description Client
type ClientResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
	IsArchived     bool   `json:"is_archived"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toClientResponse(cl *client.Client) ClientResponse {
	return ClientResponse{
		ID:             cl.ID.String(),
		OrganizationID: cl.OrganizationID.String(),
		Name:           cl.Name,
		Email:          cl.Email,
		Phone:          cl.Phone,
		Address:        cl.Address,
		Notes:          cl.Notes,
		IsArchived:     cl.IsArchived,
		CreatedAt:      *formatTime(&cl.CreatedAt),
		UpdatedAt:      *formatTime(&cl.UpdatedAt),
	}
}

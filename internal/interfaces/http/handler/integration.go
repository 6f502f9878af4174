package handler

import (
	appintegration "github.com/fieldline/backend/internal/application/integration"
	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// IntegrationRequest selects the organization for list and authorize
type IntegrationRequest struct {
	OrganizationID string `form:"organization_id" binding:"required,uuid"`
}

// ConnectRequest relays the provider's OAuth callback
type ConnectRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state" binding:"required"`
}

// UpdateIntegrationRequest toggles accounting sync
type UpdateIntegrationRequest struct {
	SyncInvoices *bool `json:"sync_invoices"`
	SyncClients  *bool `json:"sync_clients"`
	SyncPayments *bool `json:"sync_payments"`
}

// IntegrationResponse is a provider connection. OAuth tokens are never returned.
// @Description Integration connection
type IntegrationResponse struct {
	ID                string  `json:"id"`
	OrganizationID    string  `json:"organization_id"`
	UserID            string  `json:"user_id"`
	Provider          string  `json:"provider"`
	Status            string  `json:"status"`
	ExternalAccountID string  `json:"external_account_id"`
	SyncInvoices      bool    `json:"sync_invoices"`
	SyncClients       bool    `json:"sync_clients"`
	SyncPayments      bool    `json:"sync_payments"`
	LastSyncedAt      *string `json:"last_synced_at"`
	LastError         string  `json:"last_error,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func toIntegrationResponse(conn *integration.Connection) IntegrationResponse {
	return IntegrationResponse{
		ID:                conn.ID.String(),
		OrganizationID:    conn.OrganizationID.String(),
		UserID:            conn.UserID.String(),
		Provider:          string(conn.Provider),
		Status:            string(conn.Status),
		ExternalAccountID: conn.ExternalAccountID,
		SyncInvoices:      conn.SyncInvoices,
		SyncClients:       conn.SyncClients,
		SyncPayments:      conn.SyncPayments,
		LastSyncedAt:      formatTime(conn.LastSyncedAt),
		LastError:         conn.LastError,
		CreatedAt:         *formatTime(&conn.CreatedAt),
	}
}

// IntegrationHandler handles OAuth connections to external providers
type IntegrationHandler struct {
	BaseHandler
	integrations *appintegration.Service
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(svc *appintegration.Service) *IntegrationHandler {
	return &IntegrationHandler{integrations: svc}
}

func providerParam(c *gin.Context) (integration.Provider, error) {
	p := integration.Provider(c.Param("provider"))
	if !p.IsValid() {
		return "", shared.NotFound("integration provider")
	}
	return p, nil
}

// List godoc
// @ID           listIntegrations
// @Summary      List integrations
// @Description  The organization's accounting connection and the caller's own calendar connection
// @Tags         integrations
// @Produce      json
// @Param        organization_id query string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[[]IntegrationResponse]
// @Security     BearerAuth
// @Router       /integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	var req IntegrationRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := requiredOrganization(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	conns, err := h.integrations.List(c.Request.Context(), userID(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]IntegrationResponse, len(conns))
	for i := range conns {
		out[i] = toIntegrationResponse(&conns[i])
	}
	h.Success(c, out)
}

// Authorize godoc
// @ID           authorizeIntegration
// @Summary      Start the OAuth flow
// @Description  Returns the provider's consent URL and a signed state that expires after 15 minutes
// @Tags         integrations
// @Produce      json
// @Param        provider        path  string true "Provider" Enums(trade_calendar, accounting)
// @Param        organization_id query string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[appintegration.Authorization]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/{provider}/authorize [get]
func (h *IntegrationHandler) Authorize(c *gin.Context) {
	provider, err := providerParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req IntegrationRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := requiredOrganization(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	auth, err := h.integrations.Authorize(c.Request.Context(), userID(c), orgID, provider)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, auth)
}

// Connect godoc
// @ID           connectIntegration
// @Summary      Complete the OAuth flow
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        provider path string         true "Provider" Enums(trade_calendar, accounting)
// @Param        request  body ConnectRequest true "Callback parameters"
// @Success      200 {object} APIResponse[IntegrationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/{provider}/connect [post]
func (h *IntegrationHandler) Connect(c *gin.Context) {
	provider, err := providerParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req ConnectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conn, err := h.integrations.Connect(c.Request.Context(), userID(c), appintegration.ConnectInput{
		Provider: provider,
		Code:     req.Code,
		State:    req.State,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toIntegrationResponse(conn))
}

// Update godoc
// @ID           updateIntegration
// @Summary      Change sync settings
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Integration ID" format(uuid)
// @Param        request body UpdateIntegrationRequest true "Sync flags"
// @Success      200 {object} APIResponse[IntegrationResponse]
// @Security     BearerAuth
// @Router       /integrations/{id} [put]
func (h *IntegrationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conn, err := h.integrations.Update(c.Request.Context(), userID(c), id, integration.SyncFlags{
		SyncInvoices: req.SyncInvoices,
		SyncClients:  req.SyncClients,
		SyncPayments: req.SyncPayments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toIntegrationResponse(conn))
}

// Delete godoc
// @ID           deleteIntegration
// @Summary      Disconnect an integration
// @Tags         integrations
// @Param        id path string true "Integration ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /integrations/{id} [delete]
func (h *IntegrationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.integrations.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/fieldline/backend/internal/application/operations"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clients *operations.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients *operations.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// List godoc
// @ID           listClients
// @Summary      List clients
// @Description  Clients of every organization the caller belongs to, or of one organization
// @Tags         clients
// @Produce      json
// @Param        organization_id  query string false "Organization ID" format(uuid)
// @Param        search           query string false "Name, email or phone"
// @Param        include_archived query bool   false "Include archived clients"
// @Param        page             query int    false "Page" default(1)
// @Param        page_size        query int    false "Page size" default(20) maximum(200)
// @Success      200 {object} APIResponse[[]ClientResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := organizationParam(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if c.Query("include_archived") == "true" {
		filter.Filters["include_archived"] = true
	}

	page, err := h.clients.List(c.Request.Context(), userID(c), operations.ListQuery{OrganizationID: orgID, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ClientResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toClientResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getClient
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.clients.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toClientResponse(cl))
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body CreateClientRequest true "Client"
// @Success      201 {object} APIResponse[ClientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cl, err := h.clients.Create(c.Request.Context(), userID(c), operations.CreateClientInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Name:           req.Name,
		Patch: UpdateClientRequest{
			Email:   &req.Email,
			Phone:   &req.Phone,
			Address: &req.Address,
			Notes:   &req.Notes,
		}.patch(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toClientResponse(cl))
}

// Update godoc
// @ID           updateClient
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path string              true "Client ID" format(uuid)
// @Param        request body UpdateClientRequest true "Changes"
// @Success      200 {object} APIResponse[ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cl, err := h.clients.Update(c.Request.Context(), userID(c), id, req.patch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toClientResponse(cl))
}

// Delete godoc
// @ID           deleteClient
// @Summary      Delete a client
// @Description  Admins only
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/fieldline/backend/internal/application/operations"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PropertyHandler handles properties, their assets and the asset-register jobs
type PropertyHandler struct {
	BaseHandler
	properties *operations.PropertyService
	assetJobs  *operations.AssetJobService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties *operations.PropertyService, assetJobs *operations.AssetJobService) *PropertyHandler {
	return &PropertyHandler{properties: properties, assetJobs: assetJobs}
}

// listQuery reads organization_id and the shared list parameters
func (h *PropertyHandler) listQuery(c *gin.Context, uuidParams ...string) (operations.ListQuery, bool) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return operations.ListQuery{}, false
	}
	orgID, err := organizationParam(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return operations.ListQuery{}, false
	}
	filter, err := listFilter(c, req, uuidParams...)
	if err != nil {
		h.HandleError(c, err)
		return operations.ListQuery{}, false
	}
	return operations.ListQuery{OrganizationID: orgID, Filter: filter}, true
}

// List godoc
// @ID           listProperties
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        organization_id query string false "Organization ID" format(uuid)
// @Param        client_id       query string false "Client ID" format(uuid)
// @Param        search          query string false "Name or address"
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]PropertyResponse]
// @Security     BearerAuth
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	q, ok := h.listQuery(c, "client_id")
	if !ok {
		return
	}
	page, err := h.properties.List(c.Request.Context(), userID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]PropertyResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toPropertyResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getProperty
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.properties.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

// Create godoc
// @ID           createProperty
// @Summary      Add a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body CreatePropertyRequest true "Property"
// @Success      201 {object} APIResponse[PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := UpdatePropertyRequest{PropertyFields: req.PropertyFields}.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, err := h.properties.Create(c.Request.Context(), userID(c), operations.CreatePropertyInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Name:           req.Name,
		Address:        req.Address,
		Patch:          patch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPropertyResponse(p))
}

// Update godoc
// @ID           updateProperty
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Property ID" format(uuid)
// @Param        request body UpdatePropertyRequest true "Changes"
// @Success      200 {object} APIResponse[PropertyResponse]
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, err := h.properties.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

// Delete godoc
// @ID           deleteProperty
// @Summary      Delete a property
// @Tags         properties
// @Param        id path string true "Property ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.properties.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAssets godoc
// @ID           listPropertyAssets
// @Summary      List the assets at a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[[]AssetResponse]
// @Security     BearerAuth
// @Router       /properties/{id}/assets [get]
func (h *PropertyHandler) ListAssets(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	assets, err := h.properties.ListAssets(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]AssetResponse, len(assets))
	for i := range assets {
		out[i] = toAssetResponse(&assets[i])
	}
	h.Success(c, out)
}

// CreateAsset godoc
// @ID           createPropertyAsset
// @Summary      Register an asset at a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id      path string       true "Property ID" format(uuid)
// @Param        request body AssetRequest true "Asset"
// @Success      201 {object} APIResponse[AssetResponse]
// @Security     BearerAuth
// @Router       /properties/{id}/assets [post]
func (h *PropertyHandler) CreateAsset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Name == nil {
		h.HandleError(c, shared.InvalidInput("name is required"))
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	a, err := h.properties.CreateAsset(c.Request.Context(), userID(c), id, operations.CreateAssetInput{Name: *req.Name, Patch: patch})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAssetResponse(a))
}

// UpdateAsset godoc
// @ID           updateAsset
// @Summary      Update an asset
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id      path string       true "Asset ID" format(uuid)
// @Param        request body AssetRequest true "Changes"
// @Success      200 {object} APIResponse[AssetResponse]
// @Security     BearerAuth
// @Router       /assets/{id} [put]
func (h *PropertyHandler) UpdateAsset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	a, err := h.properties.UpdateAsset(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAssetResponse(a))
}

// DeleteAsset godoc
// @ID           deleteAsset
// @Summary      Remove an asset
// @Tags         properties
// @Param        id path string true "Asset ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /assets/{id} [delete]
func (h *PropertyHandler) DeleteAsset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.properties.DeleteAsset(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAssetJobs godoc
// @ID           listAssetJobs
// @Summary      List asset-register jobs
// @Tags         asset-jobs
// @Produce      json
// @Param        organization_id query string false "Organization ID" format(uuid)
// @Param        property_id     query string false "Property ID" format(uuid)
// @Param        asset_id        query string false "Asset ID" format(uuid)
// @Param        assigned_to     query string false "Assignee" format(uuid)
// @Param        status          query string false "Status" Enums(active, completed, cancelled)
// @Success      200 {object} APIResponse[[]AssetJobResponse]
// @Security     BearerAuth
// @Router       /asset-jobs [get]
func (h *PropertyHandler) ListAssetJobs(c *gin.Context) {
	q, ok := h.listQuery(c, "property_id", "asset_id", "assigned_to")
	if !ok {
		return
	}
	page, err := h.assetJobs.List(c.Request.Context(), userID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]AssetJobResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toAssetJobResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// CreateAssetJob godoc
// @ID           createAssetJob
// @Summary      Schedule an asset-register job
// @Tags         asset-jobs
// @Accept       json
// @Produce      json
// @Param        request body CreateAssetJobRequest true "Asset job"
// @Success      201 {object} APIResponse[AssetJobResponse]
// @Security     BearerAuth
// @Router       /asset-jobs [post]
func (h *PropertyHandler) CreateAssetJob(c *gin.Context) {
	var req CreateAssetJobRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.AssetJobFields.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	j, err := h.assetJobs.Create(c.Request.Context(), userID(c), operations.CreateAssetJobInput{
		PropertyID: uuid.MustParse(req.PropertyID),
		Title:      req.Title,
		JobType:    property.AssetJobType(req.JobType),
		Patch:      patch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAssetJobResponse(j))
}

// UpdateAssetJob godoc
// @ID           updateAssetJob
// @Summary      Update or cancel an asset-register job
// @Tags         asset-jobs
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Asset job ID" format(uuid)
// @Param        request body UpdateAssetJobRequest true "Changes"
// @Success      200 {object} APIResponse[AssetJobResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /asset-jobs/{id} [put]
func (h *PropertyHandler) UpdateAssetJob(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateAssetJobRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	j, err := h.assetJobs.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAssetJobResponse(j))
}

// DeleteAssetJob godoc
// @ID           deleteAssetJob
// @Summary      Delete an asset-register job
// @Tags         asset-jobs
// @Param        id path string true "Asset job ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /asset-jobs/{id} [delete]
func (h *PropertyHandler) DeleteAssetJob(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetJobs.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CompleteAssetJob godoc
// @ID           completeAssetJob
// @Summary      Complete an asset-register job
// @Description  Recurring jobs are rescheduled; the next occurrence is returned alongside
// @Tags         asset-jobs
// @Produce      json
// @Param        id path string true "Asset job ID" format(uuid)
// @Success      200 {object} APIResponse[CompleteAssetJobResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /asset-jobs/{id}/complete [post]
func (h *PropertyHandler) CompleteAssetJob(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	done, next, err := h.assetJobs.Complete(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := CompleteAssetJobResponse{Completed: toAssetJobResponse(done)}
	if next != nil {
		n := toAssetJobResponse(next)
		resp.Next = &n
	}
	h.Success(c, resp)
}

package handler

import (
	"net/http"

	appbilling "github.com/fieldline/backend/internal/application/billing"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuoteHandler handles quotes and their conversion to invoices
type QuoteHandler struct {
	BaseHandler
	quotes *appbilling.QuoteService
	public *appbilling.PublicService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quotes *appbilling.QuoteService, public *appbilling.PublicService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, public: public}
}

// List godoc
// @ID           listQuotes
// @Summary      List quotes
// @Description  Requires can_view_financials or an admin role
// @Tags         quotes
// @Produce      json
// @Param        organization_id query string true  "Organization ID" format(uuid)
// @Param        status          query string false "Status"
// @Param        client_id       query string false "Client ID" format(uuid)
// @Param        job_id          query string false "Job ID" format(uuid)
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20) maximum(200)
// @Success      200 {object} APIResponse[[]QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := requiredOrganization(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c, req, "client_id", "job_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.quotes.List(c.Request.Context(), userID(c), appbilling.ListQuery{OrganizationID: orgID, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]QuoteResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toQuoteResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getQuote
// @Summary      Get a quote
// @Description  With public_token the quote is returned without authentication in its public form
// @Tags         quotes
// @Produce      json
// @Param        id           path  string true  "Quote ID" format(uuid)
// @Param        public_token query string false "Public token"
// @Success      200 {object} APIResponse[QuoteResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if token := c.Query("public_token"); token != "" {
		p, err := h.public.Quote(c.Request.Context(), token, &id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, toPublicQuoteResponse(p))
		return
	}
	if middleware.CurrentIdentity(c) == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	q, err := h.quotes.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toQuoteResponse(q))
}

// Create godoc
// @ID           createQuote
// @Summary      Create a quote
// @Description  Requires can_create_invoices or an admin role
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body CreateQuoteRequest true "Quote"
// @Success      201 {object} APIResponse[QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.QuoteFields.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	issue, err := optionalDate("issue_date", req.IssueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	in := appbilling.CreateQuoteInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Title:          req.Title,
		Patch:          patch,
		Lines:          lineInputs(req.LineItems),
	}
	if issue != nil {
		in.IssueDate = *issue
	}
	q, err := h.quotes.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toQuoteResponse(q))
}

// Update godoc
// @ID           updateQuote
// @Summary      Update a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Quote ID" format(uuid)
// @Param        request body UpdateQuoteRequest true "Changes"
// @Success      200 {object} APIResponse[QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	q, err := h.quotes.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toQuoteResponse(q))
}

// Delete godoc
// @ID           deleteQuote
// @Summary      Delete a quote
// @Description  Converted quotes cannot be deleted
// @Tags         quotes
// @Param        id path string true "Quote ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.quotes.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine godoc
// @ID           addQuoteLine
// @Summary      Add a line item
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Quote ID" format(uuid)
// @Param        request body LineItemRequest true "Line"
// @Success      201 {object} APIResponse[QuoteResponse]
// @Security     BearerAuth
// @Router       /quotes/{id}/line-items [post]
func (h *QuoteHandler) AddLine(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotes.AddLine(c.Request.Context(), userID(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toQuoteResponse(q))
}

// UpdateLine godoc
// @ID           updateQuoteLine
// @Summary      Replace a line item
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Quote ID" format(uuid)
// @Param        item_id path string          true "Line item ID" format(uuid)
// @Param        request body LineItemRequest true "Line"
// @Success      200 {object} APIResponse[QuoteResponse]
// @Security     BearerAuth
// @Router       /quotes/{id}/line-items/{item_id} [put]
func (h *QuoteHandler) UpdateLine(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotes.UpdateLine(c.Request.Context(), userID(c), id, lineID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toQuoteResponse(q))
}

// RemoveLine godoc
// @ID           removeQuoteLine
// @Summary      Remove a line item
// @Tags         quotes
// @Produce      json
// @Param        id      path string true "Quote ID" format(uuid)
// @Param        item_id path string true "Line item ID" format(uuid)
// @Success      200 {object} APIResponse[QuoteResponse]
// @Security     BearerAuth
// @Router       /quotes/{id}/line-items/{item_id} [delete]
func (h *QuoteHandler) RemoveLine(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	q, err := h.quotes.RemoveLine(c.Request.Context(), userID(c), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toQuoteResponse(q))
}

// Convert godoc
// @ID           convertQuote
// @Summary      Convert to an invoice
// @Description  Creates a draft invoice with the quote's lines and marks the quote converted
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.quotes.Convert(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(inv))
}

package handler

import (
	appworkforce "github.com/fieldline/backend/internal/application/workforce"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkforceHandler handles subcontractor payments and trade rates
type WorkforceHandler struct {
	BaseHandler
	payments *appworkforce.PaymentService
	rates    *appworkforce.TradeRateService
}

// NewWorkforceHandler creates a new WorkforceHandler
func NewWorkforceHandler(payments *appworkforce.PaymentService, rates *appworkforce.TradeRateService) *WorkforceHandler {
	return &WorkforceHandler{payments: payments, rates: rates}
}

// ListPayments godoc
// @ID           listSubcontractorPayments
// @Summary      List subcontractor payments
// @Description  Requires financial visibility
// @Tags         workforce
// @Produce      json
// @Param        organization_id query string true  "Organization ID" format(uuid)
// @Param        status          query string false "Status" Enums(pending, approved, paid)
// @Param        member_id       query string false "Member ID" format(uuid)
// @Param        job_id          query string false "Job ID" format(uuid)
// @Success      200 {object} APIResponse[[]SubcontractorPaymentResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subcontractor-payments [get]
func (h *WorkforceHandler) ListPayments(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := requiredOrganization(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c, req, "member_id", "job_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.payments.List(c.Request.Context(), userID(c), appworkforce.ListQuery{OrganizationID: orgID, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]SubcontractorPaymentResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toSubcontractorPaymentResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// CreatePayment godoc
// @ID           createSubcontractorPayment
// @Summary      Record a subcontractor payment
// @Tags         workforce
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[SubcontractorPaymentResponse]
// @Security     BearerAuth
// @Router       /subcontractor-payments [post]
func (h *WorkforceHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	jobID, err := optionalUUID("job_id", req.JobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, err := h.payments.Create(c.Request.Context(), userID(c), appworkforce.CreatePaymentInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		MemberID:       uuid.MustParse(req.MemberID),
		JobID:          jobID,
		Amount:         req.Amount,
		Description:    req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSubcontractorPaymentResponse(p))
}

// UpdatePayment godoc
// @ID           updateSubcontractorPayment
// @Summary      Update or approve a payment
// @Tags         workforce
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Payment ID" format(uuid)
// @Param        request body UpdatePaymentRequest true "Changes"
// @Success      200 {object} APIResponse[SubcontractorPaymentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subcontractor-payments/{id} [put]
func (h *WorkforceHandler) UpdatePayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, err := h.payments.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubcontractorPaymentResponse(p))
}

// DeletePayment godoc
// @ID           deleteSubcontractorPayment
// @Summary      Delete an unpaid payment
// @Tags         workforce
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /subcontractor-payments/{id} [delete]
func (h *WorkforceHandler) DeletePayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Pay godoc
// @ID           paySubcontractorPayment
// @Summary      Mark a payment paid
// @Description  Admins only
// @Tags         workforce
// @Accept       json
// @Produce      json
// @Param        id      path string     true  "Payment ID" format(uuid)
// @Param        request body PayRequest false "Payment reference"
// @Success      200 {object} APIResponse[SubcontractorPaymentResponse]
// @Security     BearerAuth
// @Router       /subcontractor-payments/{id}/pay [post]
func (h *WorkforceHandler) Pay(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req PayRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	p, err := h.payments.Pay(c.Request.Context(), userID(c), id, req.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubcontractorPaymentResponse(p))
}

// ListRates godoc
// @ID           listTradeRates
// @Summary      List trade rates
// @Tags         workforce
// @Produce      json
// @Param        organization_id query string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[[]TradeRateResponse]
// @Security     BearerAuth
// @Router       /trade-rates [get]
func (h *WorkforceHandler) ListRates(c *gin.Context) {
	orgID, err := requiredOrganization(c.Query("organization_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	rates, err := h.rates.List(c.Request.Context(), userID(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]TradeRateResponse, len(rates))
	for i := range rates {
		out[i] = toTradeRateResponse(&rates[i])
	}
	h.Success(c, out)
}

// CreateRate godoc
// @ID           createTradeRate
// @Summary      Add a trade rate
// @Tags         workforce
// @Accept       json
// @Produce      json
// @Param        request body CreateRateRequest true "Rate"
// @Success      201 {object} APIResponse[TradeRateResponse]
// @Security     BearerAuth
// @Router       /trade-rates [post]
func (h *WorkforceHandler) CreateRate(c *gin.Context) {
	var req CreateRateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	r, err := h.rates.Create(c.Request.Context(), userID(c), appworkforce.CreateRateInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Trade:          req.Trade,
		HourlyRate:     req.HourlyRate,
		Patch:          req.RateFields.patch(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTradeRateResponse(r))
}

// UpdateRate godoc
// @ID           updateTradeRate
// @Summary      Update a trade rate
// @Tags         workforce
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Rate ID" format(uuid)
// @Param        request body UpdateRateRequest true "Changes"
// @Success      200 {object} APIResponse[TradeRateResponse]
// @Security     BearerAuth
// @Router       /trade-rates/{id} [put]
func (h *WorkforceHandler) UpdateRate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateRateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch := req.RateFields.patch()
	patch.Trade = req.Trade
	patch.HourlyRate = req.HourlyRate
	r, err := h.rates.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTradeRateResponse(r))
}

// DeleteRate godoc
// @ID           deleteTradeRate
// @Summary      Delete a trade rate
// @Tags         workforce
// @Param        id path string true "Rate ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /trade-rates/{id} [delete]
func (h *WorkforceHandler) DeleteRate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.rates.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

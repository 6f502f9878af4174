package handler

import (
	"fmt"
	"net/http"
	"time"

	appbilling "github.com/fieldline/backend/internal/application/billing"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler handles invoices with their lines and payments
type InvoiceHandler struct {
	BaseHandler
	invoices *appbilling.InvoiceService
	public   *appbilling.PublicService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *appbilling.InvoiceService, public *appbilling.PublicService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, public: public}
}

func (h *InvoiceHandler) listQuery(c *gin.Context) (appbilling.ListQuery, bool) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return appbilling.ListQuery{}, false
	}
	orgID, err := requiredOrganization(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return appbilling.ListQuery{}, false
	}
	filter, err := listFilter(c, req, "client_id", "job_id")
	if err != nil {
		h.HandleError(c, err)
		return appbilling.ListQuery{}, false
	}
	return appbilling.ListQuery{OrganizationID: orgID, Filter: filter}, true
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Requires can_view_financials or an admin role
// @Tags         invoices
// @Produce      json
// @Param        organization_id query string true  "Organization ID" format(uuid)
// @Param        status          query string false "Status"
// @Param        client_id       query string false "Client ID" format(uuid)
// @Param        job_id          query string false "Job ID" format(uuid)
// @Param        search          query string false "Invoice number"
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20) maximum(200)
// @Success      200 {object} APIResponse[[]InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	page, err := h.invoices.List(c.Request.Context(), userID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]InvoiceResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toInvoiceResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Export godoc
// @ID           exportInvoices
// @Summary      Export invoices
// @Description  All invoices matching the filters as an XLSX workbook
// @Tags         invoices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        organization_id query string true  "Organization ID" format(uuid)
// @Param        status          query string false "Status"
// @Success      200 {file} binary
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	data, err := h.invoices.Export(c.Request.Context(), userID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Description  With public_token the invoice is returned without authentication in its public form
// @Tags         invoices
// @Produce      json
// @Param        id           path  string true  "Invoice ID" format(uuid)
// @Param        public_token query string false "Public token"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if token := c.Query("public_token"); token != "" {
		p, err := h.public.Invoice(c.Request.Context(), token, &id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, toPublicInvoiceResponse(p))
		return
	}
	if middleware.CurrentIdentity(c) == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(inv))
}

// Create godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Description  Requires can_create_invoices or an admin role
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.InvoiceFields.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	issue, err := optionalDate("issue_date", req.IssueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	in := appbilling.CreateInvoiceInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Patch:          patch,
		Lines:          lineInputs(req.LineItems),
	}
	if issue != nil {
		in.IssueDate = *issue
	}
	inv, err := h.invoices.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(inv))
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Invoice ID" format(uuid)
// @Param        request body UpdateInvoiceRequest true "Changes"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	inv, err := h.invoices.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(inv))
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Description  Invoices with payments cannot be deleted
// @Tags         invoices
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine godoc
// @ID           addInvoiceLine
// @Summary      Add a line item
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Invoice ID" format(uuid)
// @Param        request body LineItemRequest true "Line"
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/line-items [post]
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invoices.AddLine(c.Request.Context(), userID(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(inv))
}

// UpdateLine godoc
// @ID           updateInvoiceLine
// @Summary      Replace a line item
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Invoice ID" format(uuid)
// @Param        item_id path string          true "Line item ID" format(uuid)
// @Param        request body LineItemRequest true "Line"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/line-items/{item_id} [put]
func (h *InvoiceHandler) UpdateLine(c *gin.Context) {
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
	inv, err := h.invoices.UpdateLine(c.Request.Context(), userID(c), id, lineID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(inv))
}

// RemoveLine godoc
// @ID           removeInvoiceLine
// @Summary      Remove a line item
// @Tags         invoices
// @Produce      json
// @Param        id      path string true "Invoice ID" format(uuid)
// @Param        item_id path string true "Line item ID" format(uuid)
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/line-items/{item_id} [delete]
func (h *InvoiceHandler) RemoveLine(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	inv, err := h.invoices.RemoveLine(c.Request.Context(), userID(c), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(inv))
}

// Payments godoc
// @ID           listInvoicePayments
// @Summary      List payments
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[[]PaymentResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [get]
func (h *InvoiceHandler) Payments(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.invoices.Payments(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResponses(payments))
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment
// @Description  Updates amount_paid and moves the invoice to partially_paid or paid
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Invoice ID" format(uuid)
// @Param        request body RecordPaymentRequest true "Payment"
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	paid, err := optionalDate("payment_date", req.PaymentDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	in := billing.PaymentInput{
		Amount:    *req.Amount,
		Method:    billing.PaymentBankTransfer,
		Reference: req.Reference,
	}
	if paid != nil {
		in.PaymentDate = *paid
	}
	if req.Method != "" {
		in.Method = billing.PaymentMethod(req.Method)
	}
	inv, err := h.invoices.RecordPayment(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(inv))
}

// RemovePayment godoc
// @ID           removeInvoicePayment
// @Summary      Remove a payment
// @Tags         invoices
// @Produce      json
// @Param        id         path string true "Invoice ID" format(uuid)
// @Param        payment_id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/payments/{payment_id} [delete]
func (h *InvoiceHandler) RemovePayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "payment_id")
	if !ok {
		return
	}
	inv, err := h.invoices.RemovePayment(c.Request.Context(), userID(c), id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(inv))
}

// PDF godoc
// @ID           invoicePDF
// @Summary      Download the invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.invoices.PDF(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}

// Send godoc
// @ID           sendInvoice
// @Summary      Email the invoice
// @Description  Sends the PDF and the public link, then marks a draft invoice as sent
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string             true  "Invoice ID" format(uuid)
// @Param        request body SendInvoiceRequest false "Recipient"
// @Success      200 {object} APIResponse[appbilling.InvoiceDelivery]
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req SendInvoiceRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	delivery, err := h.invoices.Send(c.Request.Context(), userID(c), id, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

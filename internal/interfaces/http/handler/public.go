package handler

import (
	"errors"
	"net/http"

	appbilling "github.com/fieldline/backend/internal/application/billing"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicHandler serves quotes and invoices to their clients by token.
// Every failure is a 404 so tokens cannot be probed.
type PublicHandler struct {
	BaseHandler
	public *appbilling.PublicService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(public *appbilling.PublicService) *PublicHandler {
	return &PublicHandler{public: public}
}

// Invoice godoc
// @ID           publicInvoice
// @Summary      Public invoice
// @Description  Draft and cancelled invoices are not disclosed
// @Tags         public
// @Produce      json
// @Param        token path string true "Public token"
// @Success      200 {object} APIResponse[PublicInvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/invoices/{token} [get]
func (h *PublicHandler) Invoice(c *gin.Context) {
	p, err := h.public.Invoice(c.Request.Context(), c.Param("token"), nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPublicInvoiceResponse(p))
}

// Quote godoc
// @ID           publicQuote
// @Summary      Public quote
// @Description  Draft quotes are not disclosed
// @Tags         public
// @Produce      json
// @Param        token path string true "Public token"
// @Success      200 {object} APIResponse[PublicQuoteResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/quotes/{token} [get]
func (h *PublicHandler) Quote(c *gin.Context) {
	p, err := h.public.Quote(c.Request.Context(), c.Param("token"), nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPublicQuoteResponse(p))
}

// InvoicePage renders the invoice as a standalone HTML page
func (h *PublicHandler) InvoicePage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	token := c.Query("token")
	if err != nil || token == "" {
		c.String(http.StatusNotFound, "Invoice not found")
		return
	}
	page, err := h.public.InvoicePage(c.Request.Context(), id, token)
	if errors.Is(err, shared.ErrNotFound) {
		c.String(http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Invoice page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

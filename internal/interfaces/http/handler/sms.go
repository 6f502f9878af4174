package handler

import (
	"io"
	"net/http"

	appmessaging "github.com/fieldline/backend/internal/application/messaging"
	"github.com/fieldline/backend/internal/domain/messaging"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/infrastructure/sms"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendSMSRequest sends a text to a client
type SendSMSRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required,uuid"`
	To             string  `json:"to" binding:"required,max=20" example:"+61412345678"`
	Body           string  `json:"body" binding:"required,max=1600" example:"Your technician is on the way."`
	ClientID       *string `json:"client_id" binding:"omitempty,uuid"`
	JobID          *string `json:"job_id" binding:"omitempty,uuid"`
}

// TopUpRequest adds prepaid credits
type TopUpRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Credits        int    `json:"credits" binding:"required,min=1,max=100000" example:"500"`
}

// CreditsRequest selects the organization whose balance is read
type CreditsRequest struct {
	OrganizationID string `form:"organization_id" binding:"required,uuid"`
}

// SMSResponse is a sent message
// @Description Outbound SMS
type SMSResponse struct {
	ID                string  `json:"id"`
	OrganizationID    string  `json:"organization_id"`
	ClientID          *string `json:"client_id"`
	JobID             *string `json:"job_id"`
	ToNumber          string  `json:"to_number"`
	Body              string  `json:"body"`
	Segments          int     `json:"segments"`
	Status            string  `json:"status"`
	ProviderMessageID string  `json:"provider_message_id,omitempty"`
	ErrorMessage      string  `json:"error_message,omitempty"`
	SentBy            string  `json:"sent_by"`
	DeliveredAt       *string `json:"delivered_at"`
	CreatedAt         string  `json:"created_at"`
}

// SendSMSResponse is the recorded message and the balance after it
type SendSMSResponse struct {
	Message          SMSResponse `json:"message"`
	CreditsRemaining int         `json:"credits_remaining"`
}

// CreditsResponse is an organization's SMS balance
type CreditsResponse struct {
	OrganizationID string `json:"organization_id"`
	Credits        int    `json:"credits"`
}

func toSMSResponse(m *messaging.SMSMessage) SMSResponse {
	return SMSResponse{
		ID:                m.ID.String(),
		OrganizationID:    m.OrganizationID.String(),
		ClientID:          uuidString(m.ClientID),
		JobID:             uuidString(m.JobID),
		ToNumber:          m.ToNumber,
		Body:              m.Body,
		Segments:          m.Segments,
		Status:            string(m.Status),
		ProviderMessageID: m.ProviderMessageID,
		ErrorMessage:      m.ErrorMessage,
		SentBy:            m.SentBy.String(),
		DeliveredAt:       formatTime(m.DeliveredAt),
		CreatedAt:         *formatTime(&m.CreatedAt),
	}
}

// SMSHandler handles outbound SMS, credits and delivery reports
type SMSHandler struct {
	BaseHandler
	sms *appmessaging.SMSService
}

// NewSMSHandler creates a new SMSHandler
func NewSMSHandler(svc *appmessaging.SMSService) *SMSHandler {
	return &SMSHandler{sms: svc}
}

// List godoc
// @ID           listSMS
// @Summary      List sent messages
// @Tags         sms
// @Produce      json
// @Param        organization_id query string true  "Organization ID" format(uuid)
// @Param        status          query string false "Delivery status"
// @Param        client_id       query string false "Client ID" format(uuid)
// @Param        job_id          query string false "Job ID" format(uuid)
// @Success      200 {object} APIResponse[[]SMSResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sms [get]
func (h *SMSHandler) List(c *gin.Context) {
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
	page, err := h.sms.List(c.Request.Context(), userID(c), appmessaging.ListQuery{OrganizationID: orgID, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]SMSResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toSMSResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Send godoc
// @ID           sendSMS
// @Summary      Send an SMS
// @Description  Charges one credit per segment. Credits are refunded when the gateway rejects the message.
// @Tags         sms
// @Accept       json
// @Produce      json
// @Param        request body SendSMSRequest true "Message"
// @Success      201 {object} APIResponse[SendSMSResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sms/send [post]
func (h *SMSHandler) Send(c *gin.Context) {
	var req SendSMSRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := appmessaging.SendInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		To:             req.To,
		Body:           req.Body,
	}
	var err error
	if in.ClientID, err = optionalUUID("client_id", req.ClientID); err != nil {
		h.HandleError(c, err)
		return
	}
	if in.JobID, err = optionalUUID("job_id", req.JobID); err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.sms.Send(c.Request.Context(), userID(c), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, SendSMSResponse{Message: toSMSResponse(res.Message), CreditsRemaining: res.CreditsRemaining})
}

// Credits godoc
// @ID           smsCredits
// @Summary      SMS credit balance
// @Tags         sms
// @Produce      json
// @Param        organization_id query string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[CreditsResponse]
// @Security     BearerAuth
// @Router       /sms/credits [get]
func (h *SMSHandler) Credits(c *gin.Context) {
	var req CreditsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID := uuid.MustParse(req.OrganizationID)
	credits, err := h.sms.Credits(c.Request.Context(), userID(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CreditsResponse{OrganizationID: orgID.String(), Credits: credits})
}

// TopUp godoc
// @ID           topUpSMSCredits
// @Summary      Add SMS credits
// @Description  Admins only
// @Tags         sms
// @Accept       json
// @Produce      json
// @Param        request body TopUpRequest true "Credits"
// @Success      200 {object} APIResponse[CreditsResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sms/credits [post]
func (h *SMSHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	orgID := uuid.MustParse(req.OrganizationID)
	credits, err := h.sms.TopUp(c.Request.Context(), userID(c), orgID, req.Credits)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CreditsResponse{OrganizationID: orgID.String(), Credits: credits})
}

// DeliveryReport godoc
// @ID           smsDeliveryReport
// @Summary      SMS gateway delivery report
// @Description  Signed with HMAC-SHA256 of the raw body in X-SMS-Signature. Replays are acknowledged without effect.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-SMS-Signature header string true "Hex HMAC-SHA256 of the body"
// @Success      200 {object} APIResponse[map[string]string]
// @Failure      401 {object} ErrorResponse
// @Router       /webhooks/sms [post]
func (h *SMSHandler) DeliveryReport(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	outcome, err := h.sms.HandleDeliveryReport(c.Request.Context(), body, c.GetHeader(sms.SignatureHeader))
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("SMS delivery report rejected", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"outcome": outcome})
}

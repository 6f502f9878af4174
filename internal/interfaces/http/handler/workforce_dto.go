package handler

import (
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money owed to a subcontractor
type CreatePaymentRequest struct {
	OrganizationID string          `json:"organization_id" binding:"required,uuid"`
	MemberID       string          `json:"member_id" binding:"required,uuid"`
	JobID          *string         `json:"job_id" binding:"omitempty,uuid"`
	Amount         decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"450.00"`
	Description    string          `json:"description" binding:"max=2000"`
}

// UpdatePaymentRequest changes an unpaid payment. approve moves it from
// pending to approved.
type UpdatePaymentRequest struct {
	JobID       *string          `json:"job_id" binding:"omitempty,uuid"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Approve     bool             `json:"approve"`
}

func (r UpdatePaymentRequest) patch() (workforce.PaymentPatch, error) {
	jobID, err := optionalUUID("job_id", r.JobID)
	if err != nil {
		return workforce.PaymentPatch{}, err
	}
	return workforce.PaymentPatch{JobID: jobID, Description: r.Description, Amount: r.Amount, Approve: r.Approve}, nil
}

// PayRequest marks a payment paid
type PayRequest struct {
	Reference string `json:"reference" binding:"max=255" example:"EFT 2026-03-14"`
}

// SubcontractorPaymentResponse is a subcontractor payout
// @Description Subcontractor payment
type SubcontractorPaymentResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	MemberID       string          `json:"member_id"`
	JobID          *string         `json:"job_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string"`
	Status         string          `json:"status"`
	Reference      string          `json:"reference"`
	PaidAt         *string         `json:"paid_at"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      string          `json:"created_at"`
}

func toSubcontractorPaymentResponse(p *workforce.SubcontractorPayment) SubcontractorPaymentResponse {
	return SubcontractorPaymentResponse{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		MemberID:       p.MemberID.String(),
		JobID:          uuidString(p.JobID),
		Description:    p.Description,
		Amount:         p.Amount,
		Status:         string(p.Status),
		Reference:      p.Reference,
		PaidAt:         formatTime(p.PaidAt),
		CreatedBy:      p.CreatedBy.String(),
		CreatedAt:      *formatTime(&p.CreatedAt),
	}
}

// RateFields are the optional trade rate fields
type RateFields struct {
	Description          *string          `json:"description"`
	CallOutFee           *decimal.Decimal `json:"call_out_fee" swaggertype:"string" example:"95.00"`
	AfterHoursMultiplier *decimal.Decimal `json:"after_hours_multiplier" swaggertype:"string" example:"1.5"`
	IsDefault            *bool            `json:"is_default"`
}

// CreateRateRequest adds a charge-out rate
type CreateRateRequest struct {
	OrganizationID string          `json:"organization_id" binding:"required,uuid"`
	Trade          string          `json:"trade" binding:"required,max=100" example:"Electrician"`
	HourlyRate     decimal.Decimal `json:"hourly_rate" binding:"required" swaggertype:"string" example:"110.00"`
	RateFields
}

// UpdateRateRequest is a partial trade rate update
type UpdateRateRequest struct {
	Trade      *string          `json:"trade" binding:"omitempty,min=1,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
	RateFields
}

func (f RateFields) patch() workforce.RatePatch {
	return workforce.RatePatch{
		Description:          f.Description,
		CallOutFee:           f.CallOutFee,
		AfterHoursMultiplier: f.AfterHoursMultiplier,
		IsDefault:            f.IsDefault,
	}
}

// TradeRateResponse is a charge-out rate
// @Description Trade rate
type TradeRateResponse struct {
	ID                   string          `json:"id"`
	OrganizationID       string          `json:"organization_id"`
	Trade                string          `json:"trade"`
	Description          string          `json:"description"`
	HourlyRate           decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
	CallOutFee           decimal.Decimal `json:"call_out_fee" swaggertype:"string"`
	AfterHoursMultiplier decimal.Decimal `json:"after_hours_multiplier" swaggertype:"string"`
	IsDefault            bool            `json:"is_default"`
}

func toTradeRateResponse(r *workforce.TradeRate) TradeRateResponse {
	return TradeRateResponse{
		ID:                   r.ID.String(),
		OrganizationID:       r.OrganizationID.String(),
		Trade:                r.Trade,
		Description:          r.Description,
		HourlyRate:           r.HourlyRate,
		CallOutFee:           r.CallOutFee,
		AfterHoursMultiplier: r.AfterHoursMultiplier,
		IsDefault:            r.IsDefault,
	}
}

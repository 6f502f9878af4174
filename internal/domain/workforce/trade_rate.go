package workforce

import (
	"strings"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeRate is an organization's charge-out configuration for one trade
type TradeRate struct {
	shared.TenantEntity
	Trade                string          `gorm:"type:varchar(100);not null"`
	Description          string          `gorm:"type:text"`
	HourlyRate           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CallOutFee           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AfterHoursMultiplier decimal.Decimal `gorm:"type:decimal(4,2);not null;default:1.5"`
	IsDefault            bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TradeRate) TableName() string {
	return "trade_rates"
}

var one = decimal.NewFromInt(1)

// NewTradeRate creates a rate for a trade
func NewTradeRate(organizationID uuid.UUID, trade string, hourly decimal.Decimal) (*TradeRate, error) {
	trade = strings.TrimSpace(trade)
	if trade == "" {
		return nil, shared.InvalidInput("trade is required")
	}
	if hourly.IsNegative() {
		return nil, shared.InvalidInput("hourly_rate cannot be negative")
	}
	return &TradeRate{
		TenantEntity:         shared.NewTenantEntity(organizationID),
		Trade:                trade,
		HourlyRate:           hourly,
		CallOutFee:           decimal.Zero,
		AfterHoursMultiplier: decimal.RequireFromString("1.5"),
	}, nil
}

// RatePatch holds optional trade rate updates
type RatePatch struct {
	Trade                *string
	Description          *string
	HourlyRate           *decimal.Decimal
	CallOutFee           *decimal.Decimal
	AfterHoursMultiplier *decimal.Decimal
	IsDefault            *bool
}

// Apply updates the rate
func (r *TradeRate) Apply(p RatePatch) error {
	if p.Trade != nil {
		trade := strings.TrimSpace(*p.Trade)
		if trade == "" {
			return shared.InvalidInput("trade cannot be empty")
		}
		r.Trade = trade
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.HourlyRate != nil {
		if p.HourlyRate.IsNegative() {
			return shared.InvalidInput("hourly_rate cannot be negative")
		}
		r.HourlyRate = *p.HourlyRate
	}
	if p.CallOutFee != nil {
		if p.CallOutFee.IsNegative() {
			return shared.InvalidInput("call_out_fee cannot be negative")
		}
		r.CallOutFee = *p.CallOutFee
	}
	if p.AfterHoursMultiplier != nil {
		if p.AfterHoursMultiplier.LessThan(one) {
			return shared.InvalidInput("after_hours_multiplier must be at least 1")
		}
		r.AfterHoursMultiplier = *p.AfterHoursMultiplier
	}
	if p.IsDefault != nil {
		r.IsDefault = *p.IsDefault
	}
	r.Touch()
	return nil
}

// Charge prices a visit of the given hours
func (r *TradeRate) Charge(hours decimal.Decimal, afterHours bool) decimal.Decimal {
	rate := r.HourlyRate
	if afterHours {
		rate = rate.Mul(r.AfterHoursMultiplier)
	}
	return shared.RoundMoney(r.CallOutFee.Add(rate.Mul(hours)))
}

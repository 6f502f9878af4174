package workforce

import (
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a subcontractor payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentPaid     PaymentStatus = "paid"
)

// SubcontractorPayment is money owed to a subcontractor for a job
type SubcontractorPayment struct {
	shared.TenantEntity
	JobID       *uuid.UUID      `gorm:"type:uuid;index"`
	MemberID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Reference   string          `gorm:"type:varchar(255)"`
	PaidAt      *time.Time
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (SubcontractorPayment) TableName() string {
	return "subcontractor_payments"
}

// NewSubcontractorPayment records an amount owed to a member
func NewSubcontractorPayment(organizationID, memberID, createdBy uuid.UUID, amount decimal.Decimal, description string) (*SubcontractorPayment, error) {
	if !amount.IsPositive() {
		return nil, shared.InvalidInput("amount must be greater than zero")
	}
	return &SubcontractorPayment{
		TenantEntity: shared.NewTenantEntity(organizationID),
		MemberID:     memberID,
		Description:  strings.TrimSpace(description),
		Amount:       shared.RoundMoney(amount),
		Status:       PaymentPending,
		CreatedBy:    createdBy,
	}, nil
}

// Approve moves a pending payment to approved
func (p *SubcontractorPayment) Approve() error {
	if p.Status != PaymentPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be approved")
	}
	p.Status = PaymentApproved
	p.Touch()
	return nil
}

// MarkPaid records the payout
func (p *SubcontractorPayment) MarkPaid(reference string, at time.Time) error {
	if p.Status == PaymentPaid {
		return shared.NewDomainError("INVALID_STATE", "Payment is already paid")
	}
	p.Status = PaymentPaid
	p.Reference = strings.TrimSpace(reference)
	p.PaidAt = &at
	p.UpdatedAt = at
	return nil
}

// PaymentPatch holds optional updates to an unpaid payment
type PaymentPatch struct {
	JobID       *uuid.UUID
	Description *string
	Amount      *decimal.Decimal
	Approve     bool
}

// Apply updates an unpaid payment
func (p *SubcontractorPayment) Apply(patch PaymentPatch) error {
	if p.Status == PaymentPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid payments cannot be changed")
	}
	if patch.JobID != nil {
		p.JobID = patch.JobID
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return shared.InvalidInput("amount must be greater than zero")
		}
		p.Amount = shared.RoundMoney(*patch.Amount)
	}
	if patch.Approve {
		if err := p.Approve(); err != nil {
			return err
		}
	}
	p.Touch()
	return nil
}

package identity

import (
	"strings"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Organization is the tenant boundary; all business data belongs to one
type Organization struct {
	shared.BaseEntity
	Name           string          `gorm:"type:varchar(200);not null"`
	ABN            string          `gorm:"column:abn;type:varchar(20)"`
	Email          string          `gorm:"type:varchar(255)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:text"`
	LogoURL        string          `gorm:"type:varchar(500)"`
	GSTRegistered  bool            `gorm:"column:gst_registered;not null;default:true"`
	DefaultGSTRate decimal.Decimal `gorm:"column:default_gst_rate;type:decimal(5,4);not null;default:0.1"`
	PaymentTerms   int             `gorm:"not null;default:14"` // Days until an invoice is due
	BankDetails    string          `gorm:"type:text"`
	SMSCredits     int             `gorm:"column:sms_credits;not null;default:0"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates an organization with default billing settings
func NewOrganization(name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	if len(name) > 200 {
		return nil, shared.InvalidInput("name cannot exceed 200 characters")
	}
	return &Organization{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		GSTRegistered:  true,
		DefaultGSTRate: shared.DefaultGSTRate,
		PaymentTerms:   14,
	}, nil
}

// GSTRate returns the rate applied to taxable lines, zero when not registered
func (o *Organization) GSTRate() decimal.Decimal {
	if !o.GSTRegistered {
		return decimal.Zero
	}
	if o.DefaultGSTRate.IsZero() {
		return shared.DefaultGSTRate
	}
	return o.DefaultGSTRate
}

// OrganizationPatch holds optional profile updates
type OrganizationPatch struct {
	Name           *string
	ABN            *string
	Email          *string
	Phone          *string
	Address        *string
	LogoURL        *string
	GSTRegistered  *bool
	DefaultGSTRate *decimal.Decimal
	PaymentTerms   *int
	BankDetails    *string
}

// Apply updates the organization profile
func (o *Organization) Apply(p OrganizationPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return shared.InvalidInput("name cannot be empty")
		}
		o.Name = name
	}
	if p.ABN != nil {
		o.ABN = strings.ReplaceAll(*p.ABN, " ", "")
	}
	if p.Email != nil {
		o.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		o.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		o.Address = *p.Address
	}
	if p.LogoURL != nil {
		o.LogoURL = *p.LogoURL
	}
	if p.GSTRegistered != nil {
		o.GSTRegistered = *p.GSTRegistered
	}
	if p.DefaultGSTRate != nil {
		if p.DefaultGSTRate.IsNegative() || p.DefaultGSTRate.GreaterThan(decimal.NewFromInt(1)) {
			return shared.InvalidInput("default_gst_rate must be between 0 and 1")
		}
		o.DefaultGSTRate = *p.DefaultGSTRate
	}
	if p.PaymentTerms != nil {
		if *p.PaymentTerms < 0 || *p.PaymentTerms > 365 {
			return shared.InvalidInput("payment_terms must be between 0 and 365 days")
		}
		o.PaymentTerms = *p.PaymentTerms
	}
	if p.BankDetails != nil {
		o.BankDetails = *p.BankDetails
	}
	o.Touch()
	return nil
}

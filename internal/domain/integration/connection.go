package integration

import (
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Provider names an external system
type Provider string

const (
	// ProviderTradeCalendar is the third-party trade-job calendar and SSO provider
	ProviderTradeCalendar Provider = "trade_calendar"
	// ProviderAccounting is the accounting system connection
	ProviderAccounting Provider = "accounting"
)

// IsValid reports whether the provider is known
func (p Provider) IsValid() bool {
	return p == ProviderTradeCalendar || p == ProviderAccounting
}

// Status is the state of a connection
type Status string

const (
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
	StatusDisconnected Status = "disconnected"
)

// Connection stores OAuth tokens and sync flags for one provider.
// Calendar connections belong to a user; accounting connections to the organization.
type Connection struct {
	shared.TenantEntity
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider          Provider  `gorm:"type:varchar(30);not null"`
	Status            Status    `gorm:"type:varchar(20);not null;default:'connected'"`
	AccessToken       string    `gorm:"type:text"`
	RefreshToken      string    `gorm:"type:text"`
	TokenType         string    `gorm:"type:varchar(20)"`
	TokenExpiry       *time.Time
	ExternalAccountID string `gorm:"type:varchar(255)"`
	SyncInvoices      bool   `gorm:"not null;default:false"`
	SyncClients       bool   `gorm:"not null;default:false"`
	SyncPayments      bool   `gorm:"not null;default:false"`
	LastSyncedAt      *time.Time
	LastError         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Connection) TableName() string {
	return "integrations"
}

// Tokens is the credential set returned by an OAuth exchange
type Tokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

// NewConnection creates a connected integration
func NewConnection(organizationID, userID uuid.UUID, provider Provider, tokens Tokens) (*Connection, error) {
	if !provider.IsValid() {
		return nil, shared.InvalidInput("provider is not supported")
	}
	c := &Connection{
		TenantEntity: shared.NewTenantEntity(organizationID),
		UserID:       userID,
		Provider:     provider,
	}
	c.SetTokens(tokens)
	return c, nil
}

// SetTokens stores fresh credentials and marks the connection healthy
func (c *Connection) SetTokens(t Tokens) {
	c.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		c.RefreshToken = t.RefreshToken
	}
	c.TokenType = t.TokenType
	if t.Expiry.IsZero() {
		c.TokenExpiry = nil
	} else {
		expiry := t.Expiry
		c.TokenExpiry = &expiry
	}
	c.Status = StatusConnected
	c.LastError = ""
	c.Touch()
}

// Tokens returns the stored credentials
func (c *Connection) Tokens() Tokens {
	t := Tokens{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken, TokenType: c.TokenType}
	if c.TokenExpiry != nil {
		t.Expiry = *c.TokenExpiry
	}
	return t
}

// IsUsable reports whether the connection can be called
func (c *Connection) IsUsable() bool {
	return c.Status == StatusConnected && c.AccessToken != ""
}

// MarkError records a provider failure
func (c *Connection) MarkError(msg string) {
	c.Status = StatusError
	c.LastError = msg
	c.Touch()
}

// Disconnect clears credentials
func (c *Connection) Disconnect() {
	c.Status = StatusDisconnected
	c.AccessToken = ""
	c.RefreshToken = ""
	c.TokenExpiry = nil
	c.Touch()
}

// SyncFlags holds optional sync flag updates
type SyncFlags struct {
	SyncInvoices *bool
	SyncClients  *bool
	SyncPayments *bool
}

// ApplySyncFlags updates which records are mirrored to the provider
func (c *Connection) ApplySyncFlags(f SyncFlags) error {
	if c.Provider != ProviderAccounting && (f.SyncInvoices != nil || f.SyncClients != nil || f.SyncPayments != nil) {
		return shared.InvalidInput("sync flags only apply to accounting connections")
	}
	if f.SyncInvoices != nil {
		c.SyncInvoices = *f.SyncInvoices
	}
	if f.SyncClients != nil {
		c.SyncClients = *f.SyncClients
	}
	if f.SyncPayments != nil {
		c.SyncPayments = *f.SyncPayments
	}
	c.Touch()
	return nil
}

package messaging

import (
	"context"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SMSRepository defines persistence for SMS messages
type SMSRepository interface {
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]SMSMessage, int64, error)
	FindByProviderID(ctx context.Context, providerMessageID string) (*SMSMessage, error)
	Save(ctx context.Context, m *SMSMessage) error
}

// SMSSender delivers a message through the SMS provider
type SMSSender interface {
	// Send returns the provider's message id
	Send(ctx context.Context, to, body string) (string, error)
}

// SendResult reports a send attempt back to callers
type SendResult struct {
	Message          *SMSMessage
	CreditsRemaining int
	OrganizationID   uuid.UUID
}

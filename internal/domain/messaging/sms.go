package messaging

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SMSStatus tracks delivery of an outbound message
type SMSStatus string

const (
	SMSQueued      SMSStatus = "queued"
	SMSSent        SMSStatus = "sent"
	SMSDelivered   SMSStatus = "delivered"
	SMSFailed      SMSStatus = "failed"
	SMSUndelivered SMSStatus = "undelivered"
)

// IsFinal reports whether no further status changes are expected
func (s SMSStatus) IsFinal() bool {
	return s == SMSDelivered || s == SMSFailed || s == SMSUndelivered
}

// ParseSMSStatus maps a provider status onto a known status
func ParseSMSStatus(s string) (SMSStatus, bool) {
	switch SMSStatus(strings.ToLower(strings.TrimSpace(s))) {
	case SMSQueued:
		return SMSQueued, true
	case SMSSent:
		return SMSSent, true
	case SMSDelivered:
		return SMSDelivered, true
	case SMSFailed:
		return SMSFailed, true
	case SMSUndelivered:
		return SMSUndelivered, true
	}
	return "", false
}

const (
	// MaxSMSBody caps a message at ten concatenated segments
	MaxSMSBody      = 1530
	gsmSegment      = 160
	gsmMultiSegment = 153
	ucsSegment      = 70
	ucsMultiSegment = 67
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// SMSMessage is an outbound text message charged against organization credits
type SMSMessage struct {
	shared.TenantEntity
	ClientID          *uuid.UUID `gorm:"type:uuid;index"`
	JobID             *uuid.UUID `gorm:"type:uuid;index"`
	ToNumber          string     `gorm:"type:varchar(20);not null"`
	Body              string     `gorm:"type:text;not null"`
	Segments          int        `gorm:"not null;default:1"`
	Status            SMSStatus  `gorm:"type:varchar(20);not null;default:'queued'"`
	ProviderMessageID string     `gorm:"type:varchar(100);index"`
	ErrorMessage      string     `gorm:"type:text"`
	SentBy            uuid.UUID  `gorm:"type:uuid;not null"`
	DeliveredAt       *time.Time
}

// TableName returns the table name for GORM
func (SMSMessage) TableName() string {
	return "sms_messages"
}

// NewSMSMessage validates and prices a message
func NewSMSMessage(organizationID, sentBy uuid.UUID, to, body string) (*SMSMessage, error) {
	to = NormalizePhone(to)
	if !phonePattern.MatchString(to) {
		return nil, shared.InvalidInput("to is not a valid phone number")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.InvalidInput("body is required")
	}
	if utf8.RuneCountInString(body) > MaxSMSBody {
		return nil, shared.InvalidInput("body is too long")
	}
	return &SMSMessage{
		TenantEntity: shared.NewTenantEntity(organizationID),
		ToNumber:     to,
		Body:         body,
		Segments:     CountSegments(body),
		Status:       SMSQueued,
		SentBy:       sentBy,
	}, nil
}

// NormalizePhone strips formatting and converts local mobile numbers to E.164
func NormalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n := b.String()
	if strings.HasPrefix(n, "04") && len(n) == 10 {
		return "+61" + n[1:]
	}
	return n
}

// CountSegments returns how many credits a body consumes
func CountSegments(body string) int {
	n := utf8.RuneCountInString(body)
	single, multi := gsmSegment, gsmMultiSegment
	if !isGSM(body) {
		single, multi = ucsSegment, ucsMultiSegment
	}
	if n <= single {
		return 1
	}
	return (n + multi - 1) / multi
}

func isGSM(s string) bool {
	for _, r := range s {
		if r > 0x7F {
			return false
		}
	}
	return true
}

// MarkSent records the provider's acceptance
func (m *SMSMessage) MarkSent(providerID string) {
	m.Status = SMSSent
	m.ProviderMessageID = providerID
	m.Touch()
}

// MarkFailed records a send failure
func (m *SMSMessage) MarkFailed(reason string) {
	m.Status = SMSFailed
	m.ErrorMessage = reason
	m.Touch()
}

// ApplyStatus applies a delivery report. Final states are not overwritten.
func (m *SMSMessage) ApplyStatus(s SMSStatus, errMsg string, at time.Time) bool {
	if m.Status.IsFinal() {
		return false
	}
	m.Status = s
	if errMsg != "" {
		m.ErrorMessage = errMsg
	}
	if s == SMSDelivered {
		m.DeliveredAt = &at
	}
	m.UpdatedAt = at
	return true
}

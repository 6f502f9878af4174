package sms

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body
const SignatureHeader = "X-SMS-Signature"

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// DeliveryReport is the gateway's status callback
type DeliveryReport struct {
	EventID   string    `json:"event_id"`
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Sign returns the signature the gateway would send for body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a body against its signature header in constant time.
// An optional "sha256=" prefix is accepted.
func VerifySignature(secret string, body []byte, signature string) error {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return ErrMissingSignature
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseDeliveryReport decodes a verified webhook body
func ParseDeliveryReport(body []byte) (*DeliveryReport, error) {
	var r DeliveryReport
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	if r.MessageID == "" || r.Status == "" {
		return nil, errors.New("delivery report needs message_id and status")
	}
	if r.EventID == "" {
		r.EventID = r.MessageID + ":" + strings.ToLower(r.Status)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return &r, nil
}

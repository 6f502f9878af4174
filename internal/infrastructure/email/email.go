// Package email delivers transactional email: invoices and job reports with
// their PDFs attached.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Attachment is a file sent with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errors.New("email needs at least one recipient")
	}
	for _, to := range m.To {
		if !strings.Contains(to, "@") {
			return fmt.Errorf("invalid recipient %q", to)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email subject is required")
	}
	return nil
}

// Sender delivers messages and returns the provider's message id
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ErrDisabled is returned when email is turned off without a fallback
var ErrDisabled = errors.New("email delivery is not configured")

// NewSender picks the Resend sender when enabled, otherwise the logging
// fallback or a sender that always fails with ErrDisabled.
func NewSender(cfg config.EmailConfig, logger *zap.Logger) (Sender, error) {
	if cfg.Enabled {
		return NewResendSender(cfg, logger)
	}
	if cfg.Fallback {
		return &LogSender{logger: logger}, nil
	}
	return disabledSender{}, nil
}

// ResendSender sends through the Resend API
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
	logger  *zap.Logger
}

// NewResendSender creates a Resend-backed sender
func NewResendSender(cfg config.EmailConfig, logger *zap.Logger) (*ResendSender, error) {
	if cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("email api_key and from are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid email base_url: %w", err)
		}
		client.BaseURL = u
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendSender{client: client, from: cfg.From, replyTo: cfg.ReplyTo, logger: logger}, nil
}

// Send delivers the message. Rate limit responses are reported, not retried.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: s.replyTo,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Data,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn("email rate limit exceeded",
				zap.String("limit", rateLimitErr.Limit),
				zap.String("reset", rateLimitErr.Reset))
			return "", fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return "", fmt.Errorf("email API error: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("email_id", sent.Id),
		zap.Strings("to", msg.To),
		zap.Int("attachments", len(msg.Attachments)))
	return sent.Id, nil
}

// LogSender writes messages to the log instead of sending them
type LogSender struct {
	logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	id := "logged-" + uuid.NewString()
	s.logger.Info("email delivery disabled, message logged",
		zap.String("email_id", id),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))
	return id, nil
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, Message) (string, error) {
	return "", ErrDisabled
}

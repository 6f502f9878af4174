// Package messaging sends SMS to clients against prepaid organization
// credits and applies the gateway's delivery reports.
package messaging

import (
	"context"
	"errors"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/messaging"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/sms"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxTopUp caps a single credit top-up
const MaxTopUp = 100000

var (
	ErrSMSUnavailable = shared.NewDomainError("SMS_UNAVAILABLE", "SMS delivery is not configured")
	ErrSMSFailed      = shared.NewDomainError("SMS_FAILED", "The SMS gateway did not accept the message")
)

// Webhook outcomes, also used as metric labels
const (
	WebhookApplied   = "applied"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
	WebhookRejected  = "rejected"
)

// ListQuery selects one organization's messages
type ListQuery struct {
	OrganizationID uuid.UUID
	Filter         shared.Filter
}

// SendInput contains the input for sending a message
type SendInput struct {
	OrganizationID uuid.UUID
	ClientID       *uuid.UUID
	JobID          *uuid.UUID
	To             string
	Body           string
}

// SMSService sends messages and tracks their delivery
type SMSService struct {
	messages      messaging.SMSRepository
	sender        messaging.SMSSender
	orgs          identity.OrganizationRepository
	clients       client.Repository
	jobs          job.Repository
	access        *appidentity.Access
	webhooks      shared.IdempotencyStore
	webhookSecret string
	webhookTTL    time.Duration
	metrics       *telemetry.Metrics
	logger        *zap.Logger
}

// SMSDeps groups the collaborators of SMSService
type SMSDeps struct {
	Messages      messaging.SMSRepository
	Sender        messaging.SMSSender
	Orgs          identity.OrganizationRepository
	Clients       client.Repository
	Jobs          job.Repository
	Access        *appidentity.Access
	Webhooks      shared.IdempotencyStore
	WebhookSecret string
	Metrics       *telemetry.Metrics
	Logger        *zap.Logger
}

// NewSMSService creates an SMS service
func NewSMSService(d SMSDeps) *SMSService {
	return &SMSService{
		messages:      d.Messages,
		sender:        d.Sender,
		orgs:          d.Orgs,
		clients:       d.Clients,
		jobs:          d.Jobs,
		access:        d.Access,
		webhooks:      d.Webhooks,
		webhookSecret: d.WebhookSecret,
		webhookTTL:    shared.WebhookReplayWindow,
		metrics:       d.Metrics,
		logger:        d.Logger,
	}
}

// List returns one page of the organization's messages, newest first
func (s *SMSService) List(ctx context.Context, userID uuid.UUID, q ListQuery) (shared.Paginated[messaging.SMSMessage], error) {
	if _, err := s.access.Member(ctx, q.OrganizationID, userID); err != nil {
		return shared.Paginated[messaging.SMSMessage]{}, err
	}
	q.Filter.Normalize()
	items, total, err := s.messages.List(ctx, shared.NewScope(userID, &q.OrganizationID), q.Filter)
	if err != nil {
		return shared.Paginated[messaging.SMSMessage]{}, err
	}
	return shared.NewPaginated(items, total, q.Filter.Page, q.Filter.PageSize), nil
}

// Send charges the message's segments and hands it to the gateway. Credits
// are refunded when the gateway refuses the message; the failed message is
// still recorded. A message the gateway accepted is reported as sent even
// when recording it fails.
func (s *SMSService) Send(ctx context.Context, userID uuid.UUID, in SendInput) (*messaging.SendResult, error) {
	if _, err := s.access.Member(ctx, in.OrganizationID, userID); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, in); err != nil {
		return nil, err
	}
	msg, err := messaging.NewSMSMessage(in.OrganizationID, userID, in.To, in.Body)
	if err != nil {
		return nil, err
	}
	msg.ClientID, msg.JobID = in.ClientID, in.JobID

	ok, err := s.orgs.ConsumeSMSCredits(ctx, in.OrganizationID, msg.Segments)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.SMSMessages.WithLabelValues("insufficient_credits").Inc()
		return nil, shared.ErrInsufficientCredits
	}

	providerID, sendErr := s.sender.Send(ctx, msg.ToNumber, msg.Body)
	if sendErr != nil {
		msg.MarkFailed(sendErr.Error())
		if _, err := s.orgs.AddSMSCredits(ctx, in.OrganizationID, msg.Segments); err != nil {
			s.logger.Error("Failed to refund SMS credits",
				zap.String("organization_id", in.OrganizationID.String()),
				zap.Int("segments", msg.Segments),
				zap.Error(err))
		}
	} else {
		msg.MarkSent(providerID)
	}
	s.metrics.SMSMessages.WithLabelValues(telemetry.Result(sendErr, "sent", "failed")).Inc()

	// Recording failures are logged only; the gateway outcome stands.
	if err := s.messages.Save(ctx, msg); err != nil {
		s.logger.Error("Failed to record SMS",
			zap.String("sms_id", msg.ID.String()),
			zap.String("organization_id", in.OrganizationID.String()),
			zap.String("status", string(msg.Status)),
			zap.String("provider_message_id", providerID),
			zap.Error(err))
	}
	if sendErr != nil {
		s.logger.Warn("SMS send failed",
			zap.String("sms_id", msg.ID.String()),
			zap.Error(sendErr))
		if errors.Is(sendErr, sms.ErrNotConfigured) {
			return nil, ErrSMSUnavailable
		}
		return nil, ErrSMSFailed
	}

	org, err := s.orgs.FindByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SMS sent",
		zap.String("sms_id", msg.ID.String()),
		zap.String("provider_message_id", providerID),
		zap.Int("segments", msg.Segments))
	return &messaging.SendResult{Message: msg, CreditsRemaining: org.SMSCredits, OrganizationID: org.ID}, nil
}

func (s *SMSService) checkReferences(ctx context.Context, userID uuid.UUID, in SendInput) error {
	scope := shared.NewScope(userID, &in.OrganizationID)
	if in.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, scope, *in.ClientID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.InvalidInput("client_id does not belong to this organization")
			}
			return err
		}
	}
	if in.JobID != nil {
		if _, err := s.jobs.FindByID(ctx, scope, *in.JobID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.InvalidInput("job_id does not belong to this organization")
			}
			return err
		}
	}
	return nil
}

// Credits returns the organization's remaining credits
func (s *SMSService) Credits(ctx context.Context, userID, orgID uuid.UUID) (int, error) {
	if _, err := s.access.Member(ctx, orgID, userID); err != nil {
		return 0, err
	}
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return 0, err
	}
	return org.SMSCredits, nil
}

// TopUp adds purchased credits. Admins only.
func (s *SMSService) TopUp(ctx context.Context, userID, orgID uuid.UUID, credits int) (int, error) {
	if _, err := s.access.RequireAdmin(ctx, orgID, userID); err != nil {
		return 0, err
	}
	if credits <= 0 || credits > MaxTopUp {
		return 0, shared.InvalidInput("credits must be between 1 and 100000")
	}
	balance, err := s.orgs.AddSMSCredits(ctx, orgID, credits)
	if err != nil {
		return 0, err
	}
	s.logger.Info("SMS credits topped up",
		zap.String("organization_id", orgID.String()),
		zap.Int("credits", credits),
		zap.Int("balance", balance))
	return balance, nil
}

// HandleDeliveryReport verifies and applies a gateway callback. Replayed
// events and reports for unknown messages are acknowledged without effect.
func (s *SMSService) HandleDeliveryReport(ctx context.Context, body []byte, signature string) (string, error) {
	outcome, err := s.handleDeliveryReport(ctx, body, signature)
	s.metrics.SMSWebhooks.WithLabelValues(outcome).Inc()
	return outcome, err
}

func (s *SMSService) handleDeliveryReport(ctx context.Context, body []byte, signature string) (string, error) {
	if s.webhookSecret == "" {
		return WebhookRejected, shared.NewDomainError("UNAUTHORIZED", "SMS webhook is not configured")
	}
	if err := sms.VerifySignature(s.webhookSecret, body, signature); err != nil {
		return WebhookRejected, shared.NewDomainError("UNAUTHORIZED", "Invalid webhook signature")
	}
	report, err := sms.ParseDeliveryReport(body)
	if err != nil {
		return WebhookRejected, shared.InvalidInput("malformed delivery report")
	}
	status, ok := messaging.ParseSMSStatus(report.Status)
	if !ok {
		s.logger.Warn("Unknown SMS status in delivery report", zap.String("status", report.Status))
		return WebhookIgnored, nil
	}

	fresh, err := s.webhooks.MarkProcessed(ctx, report.EventID, s.webhookTTL)
	if err != nil {
		return WebhookRejected, err
	}
	if !fresh {
		return WebhookDuplicate, nil
	}

	msg, err := s.messages.FindByProviderID(ctx, report.MessageID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Info("Delivery report for unknown message", zap.String("provider_message_id", report.MessageID))
		return WebhookIgnored, nil
	}
	if err != nil {
		return WebhookRejected, err
	}
	if !msg.ApplyStatus(status, report.Error, report.Timestamp) {
		return WebhookIgnored, nil
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		return WebhookRejected, err
	}
	s.logger.Debug("SMS status updated",
		zap.String("sms_id", msg.ID.String()),
		zap.String("status", string(status)))
	return WebhookApplied, nil
}

package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/email"
	"github.com/fieldline/backend/internal/infrastructure/printing"
	"github.com/fieldline/backend/internal/infrastructure/storage"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService renders job completion reports and delivers them to clients
type ReportService struct {
	jobs       job.Repository
	clients    client.Repository
	properties property.Repository
	orgs       identity.OrganizationRepository
	users      identity.UserRepository
	access     *appidentity.Access
	builder    *printing.ReportBuilder
	store      storage.ObjectStore
	mailer     email.Sender
	metrics    *telemetry.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ReportDeps groups the collaborators of ReportService
type ReportDeps struct {
	Jobs       job.Repository
	Clients    client.Repository
	Properties property.Repository
	Orgs       identity.OrganizationRepository
	Users      identity.UserRepository
	Access     *appidentity.Access
	Builder    *printing.ReportBuilder
	Store      storage.ObjectStore
	Mailer     email.Sender
	Metrics    *telemetry.Metrics
	Logger     *zap.Logger
}

// NewReportService creates a report service
func NewReportService(d ReportDeps) *ReportService {
	return &ReportService{
		jobs:       d.Jobs,
		clients:    d.Clients,
		properties: d.Properties,
		orgs:       d.Orgs,
		users:      d.Users,
		access:     d.Access,
		builder:    d.Builder,
		store:      d.Store,
		mailer:     d.Mailer,
		metrics:    d.Metrics,
		logger:     d.Logger,
		now:        time.Now,
	}
}

// Render produces the completion report PDF for a job
func (s *ReportService) Render(ctx context.Context, userID, jobID uuid.UUID) ([]byte, string, error) {
	report, err := s.load(ctx, userID, jobID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.render(ctx, report)
	if err != nil {
		return nil, "", err
	}
	return pdf, reportFilename(report.Job), nil
}

// Send renders the report, archives it and emails it to the client. to
// overrides the client's email address when set.
func (s *ReportService) Send(ctx context.Context, userID, jobID uuid.UUID, to string) (*ReportDelivery, error) {
	report, err := s.load(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if report.Job.Status != job.StatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only completed jobs have a report to send")
	}
	to = strings.TrimSpace(to)
	if to == "" && report.Client != nil {
		to = report.Client.Email
	}
	if to == "" {
		return nil, shared.InvalidInput("client has no email address; provide to")
	}

	pdf, err := s.render(ctx, report)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s/%d.pdf", report.Job.OrganizationID, report.Job.ID, s.now().Unix())
	if err := s.store.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("archive job report: %w", err)
	}
	url, expires, err := s.store.DownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("sign job report url: %w", err)
	}

	clientName := ""
	if report.Client != nil {
		clientName = report.Client.Name
	}
	html, err := email.RenderReportEmail(email.ReportEmail{
		OrganizationName: report.Organization.Name,
		ClientName:       clientName,
		JobTitle:         report.Job.Title,
		DownloadURL:      url,
	})
	if err != nil {
		return nil, err
	}
	id, err := s.mailer.Send(ctx, email.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Job report: %s", report.Job.Title),
		HTML:    html,
		Attachments: []email.Attachment{{
			Filename:    reportFilename(report.Job),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})
	s.metrics.EmailsSent.WithLabelValues("job_report", telemetry.Result(err, "sent", "failed")).Inc()
	if errors.Is(err, email.ErrDisabled) {
		return nil, shared.ErrEmailUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("email job report: %w", err)
	}

	s.logger.Info("Job report sent",
		zap.String("job_id", report.Job.ID.String()),
		zap.String("email_id", id),
		zap.String("object_key", key))
	return &ReportDelivery{DownloadURL: url, ExpiresAt: expires, EmailID: id, SentTo: to}, nil
}

func (s *ReportService) render(ctx context.Context, r printing.JobReport) ([]byte, error) {
	start := time.Now()
	pdf, err := s.builder.PDF(ctx, r)
	s.metrics.DocumentsRender.WithLabelValues("job_report").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to render job report", zap.String("job_id", r.Job.ID.String()), zap.Error(err))
		return nil, err
	}
	return pdf, nil
}

// load gathers the job and everything printed with it. Missing optional rows
// are left out of the report.
func (s *ReportService) load(ctx context.Context, userID, jobID uuid.UUID) (printing.JobReport, error) {
	scope := shared.NewScope(userID, nil)
	j, err := s.jobs.FindByID(ctx, scope, jobID)
	if err != nil {
		return printing.JobReport{}, err
	}
	if _, err := s.access.Member(ctx, j.OrganizationID, userID); err != nil {
		return printing.JobReport{}, err
	}
	org, err := s.orgs.FindByID(ctx, j.OrganizationID)
	if err != nil {
		return printing.JobReport{}, err
	}
	r := printing.JobReport{Job: j, Organization: org, GeneratedAt: s.now()}

	if j.ClientID != nil {
		if r.Client, err = optional(s.clients.FindByID(ctx, scope, *j.ClientID)); err != nil {
			return printing.JobReport{}, err
		}
	}
	if j.PropertyID != nil {
		if r.Property, err = optional(s.properties.FindByID(ctx, scope, *j.PropertyID)); err != nil {
			return printing.JobReport{}, err
		}
		if r.Property != nil {
			if r.Assets, err = s.properties.ListAssets(ctx, r.Property.ID); err != nil {
				return printing.JobReport{}, err
			}
		}
	}
	if j.AssignedTo != nil {
		u, err := optional(s.users.FindByID(ctx, *j.AssignedTo))
		if err != nil {
			return printing.JobReport{}, err
		}
		if u != nil {
			r.AssigneeName = u.FullName
		}
	}
	return r, nil
}

// optional turns ErrNotFound into a nil result
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func reportFilename(j *job.Job) string {
	return fmt.Sprintf("job-report-%s.pdf", j.ID.String()[:8])
}

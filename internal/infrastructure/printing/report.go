package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/property"
)

// JobReport is everything the completion report shows. Client, Property and
// Assets are optional.
type JobReport struct {
	Job          *job.Job
	Organization *identity.Organization
	Client       *client.Client
	Property     *property.Property
	Assets       []property.Asset
	AssigneeName string
	GeneratedAt  time.Time
}

const jobReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Job report - {{.Job.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #1f4e79; padding-bottom: 8px; }
  h1 { font-size: 18pt; margin: 0; color: #1f4e79; }
  h2 { font-size: 12pt; margin: 18px 0 6px; color: #1f4e79; }
  table { width: 100%; border-collapse: collapse; }
  td, th { text-align: left; padding: 4px 6px; vertical-align: top; }
  th { width: 30%; color: #555; font-weight: normal; }
  .assets td { border-bottom: 1px solid #ddd; }
  .notes { white-space: normal; line-height: 1.4; }
  footer { margin-top: 28px; font-size: 9pt; color: #777; border-top: 1px solid #ddd; padding-top: 6px; }
</style>
</head>
<body>
<header>
  <div>
    <h1>Job Completion Report</h1>
    <div>{{.Job.Title}}</div>
  </div>
  <div style="text-align:right">
    <strong>{{.Organization.Name}}</strong><br>
    {{with .Organization.ABN}}ABN {{.}}<br>{{end}}
    {{with .Organization.Phone}}{{.}}<br>{{end}}
    {{.Organization.Email}}
  </div>
</header>

<h2>Details</h2>
<table>
  {{with .Client}}<tr><th>Client</th><td>{{.Name}}</td></tr>{{end}}
  {{if .Property}}<tr><th>Site</th><td>{{.Property.Name}}, {{.Property.Address}}</td></tr>
  {{else if .Job.Address}}<tr><th>Site</th><td>{{.Job.Address}}</td></tr>{{end}}
  <tr><th>Job type</th><td>{{.Job.JobType}}</td></tr>
  {{with .Job.ScheduledStart}}<tr><th>Scheduled</th><td>{{datetime .}}</td></tr>{{end}}
  {{with .Job.CompletedAt}}<tr><th>Completed</th><td>{{datetime .}}</td></tr>{{end}}
  {{with .AssigneeName}}<tr><th>Technician</th><td>{{.}}</td></tr>{{end}}
</table>

{{with .Job.Description}}
<h2>Scope of work</h2>
<div class="notes">{{notes .}}</div>
{{end}}

<h2>Work completed</h2>
<div class="notes">{{if .Job.CompletionNotes}}{{notes .Job.CompletionNotes}}{{else}}No completion notes recorded.{{end}}</div>

{{if .Assets}}
<h2>Equipment on site</h2>
<table class="assets">
  <tr><th>Asset</th><th>Make / model</th><th>Serial</th></tr>
  {{range .Assets}}<tr><td>{{.Name}}</td><td>{{.Make}} {{.Model}}</td><td>{{.SerialNumber}}</td></tr>{{end}}
</table>
{{end}}

<footer>
  Generated {{datetime .GeneratedAtPtr}}{{with .Footer}} &middot; {{.}}{{end}}
</footer>
</body>
</html>`

var jobReportTmpl = template.Must(template.New("job_report").Funcs(templateFuncs).Parse(jobReportTemplate))

// ReportBuilder renders job completion reports
type ReportBuilder struct {
	renderer PDFRenderer
	footer   string
}

// NewReportBuilder creates a builder printing through renderer. footer is
// appended to every report, typically licence numbers.
func NewReportBuilder(renderer PDFRenderer, footer string) *ReportBuilder {
	return &ReportBuilder{renderer: renderer, footer: footer}
}

type jobReportView struct {
	JobReport
	Footer string
}

func (v jobReportView) GeneratedAtPtr() *time.Time {
	t := v.GeneratedAt
	return &t
}

// HTML renders the report document
func (b *ReportBuilder) HTML(r JobReport) (string, error) {
	if r.Job == nil || r.Organization == nil {
		return "", NewRenderError(ErrCodeTemplate, "job report needs a job and an organization", nil)
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := jobReportTmpl.Execute(&buf, jobReportView{JobReport: r, Footer: b.footer}); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "render job report", err)
	}
	return buf.String(), nil
}

// PDF renders the report and prints it
func (b *ReportBuilder) PDF(ctx context.Context, r JobReport) ([]byte, error) {
	html, err := b.HTML(r)
	if err != nil {
		return nil, err
	}
	return b.renderer.RenderPDF(ctx, html)
}

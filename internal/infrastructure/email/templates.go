package email

import (
	"bytes"
	"html/template"
)

// InvoiceEmail is the data for the invoice cover email
type InvoiceEmail struct {
	OrganizationName string
	ClientName       string
	InvoiceNumber    string
	Total            string
	DueDate          string
	PublicURL        string
}

// ReportEmail is the data for the job report cover email
type ReportEmail struct {
	OrganizationName string
	ClientName       string
	JobTitle         string
	DownloadURL      string
}

var (
	invoiceTmpl = template.Must(template.New("invoice").Parse(`<p>Hi {{if .ClientName}}{{.ClientName}}{{else}}there{{end}},</p>
<p>Please find attached invoice <strong>{{.InvoiceNumber}}</strong> from {{.OrganizationName}} for <strong>{{.Total}}</strong>, due {{.DueDate}}.</p>
{{if .PublicURL}}<p>You can also <a href="{{.PublicURL}}">view the invoice online</a>.</p>{{end}}
<p>Thanks,<br>{{.OrganizationName}}</p>`))

	reportTmpl = template.Must(template.New("report").Parse(`<p>Hi {{if .ClientName}}{{.ClientName}}{{else}}there{{end}},</p>
<p>The work "{{.JobTitle}}" has been completed. The completion report is attached.</p>
{{if .DownloadURL}}<p>A copy is available <a href="{{.DownloadURL}}">here</a> for a limited time.</p>{{end}}
<p>Thanks,<br>{{.OrganizationName}}</p>`))
)

// RenderInvoiceEmail renders the invoice cover email body
func RenderInvoiceEmail(d InvoiceEmail) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderReportEmail renders the job report cover email body
func RenderReportEmail(d ReportEmail) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

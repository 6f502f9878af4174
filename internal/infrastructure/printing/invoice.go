package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// InvoiceDocument is the invoice with the parties it is addressed between
type InvoiceDocument struct {
	Invoice      *billing.Invoice
	Organization *identity.Organization
	Client       *client.Client
	PublicURL    string
	Today        time.Time
}

func (d InvoiceDocument) today() time.Time {
	if d.Today.IsZero() {
		return time.Now()
	}
	return d.Today
}

const (
	pageLeft  = 15.0
	pageRight = 195.0
	lineH     = 6.0
)

// InvoicePDF draws an A4 invoice
func InvoicePDF(d InvoiceDocument) ([]byte, error) {
	inv, org := d.Invoice, d.Organization
	if inv == nil || org == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "invoice PDF needs an invoice and an organization", nil)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 15, 210-pageRight)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreator(org.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	txt := func(s string) string { return tr(plainText(s)) }

	pdf.AddPage()

	// Sender block
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(31, 78, 121)
	pdf.CellFormat(100, 8, txt(org.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 20)
	title := "TAX INVOICE"
	if !org.GSTRegistered {
		title = "INVOICE"
	}
	pdf.CellFormat(pageRight-pageLeft-100, 8, title, "", 1, "R", false, 0, "")
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range []string{abnLine(org.ABN), org.Address, org.Phone, org.Email} {
		if strings.TrimSpace(l) != "" {
			pdf.CellFormat(100, 4.5, txt(l), "", 1, "L", false, 0, "")
		}
	}

	// Invoice meta on the right
	y := 25.0
	meta := [][2]string{
		{"Invoice #", inv.InvoiceNumber},
		{"Issue date", FormatDate(inv.IssueDate)},
		{"Due date", FormatDate(inv.DueDate)},
		{"Status", strings.ReplaceAll(string(inv.Status), "_", " ")},
	}
	for _, m := range meta {
		pdf.SetXY(130, y)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(25, 5, m[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(pageRight-155, 5, txt(m[1]), "", 0, "R", false, 0, "")
		y += 5
	}

	// Bill to
	pdf.SetXY(pageLeft, 55)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineH, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if c := d.Client; c != nil {
		for _, l := range []string{c.Name, c.Address, c.Email} {
			if strings.TrimSpace(l) != "" {
				pdf.MultiCell(90, 5, txt(l), "", "L", false)
			}
		}
	}

	// Line table
	pdf.Ln(6)
	cols := []float64{95, 20, 30, 35}
	pdf.SetFillColor(31, 78, 121)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Description", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 7, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetDrawColor(220, 220, 220)
	for _, li := range inv.LineItems {
		desc := li.Description
		if !li.GSTApplicable && org.GSTRegistered {
			desc += " (GST free)"
		}
		pdf.CellFormat(cols[0], lineH, txt(truncate(desc, 60)), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], lineH, li.Quantity.String(), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], lineH, FormatMoney(li.UnitPrice), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], lineH, FormatMoney(li.Amount), "B", 1, "R", false, 0, "")
	}

	// Totals
	pdf.Ln(3)
	total := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetX(pageRight - 75)
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(40, lineH, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, lineH, value, "", 1, "R", false, 0, "")
	}
	total("Subtotal", FormatMoney(inv.Subtotal), false)
	if org.GSTRegistered {
		total("GST", FormatMoney(inv.GSTAmount), false)
	}
	total("Total", FormatMoney(inv.TotalAmount), true)
	if inv.AmountPaid.IsPositive() {
		total("Paid", FormatMoney(inv.AmountPaid), false)
	}
	total("Balance due", FormatMoney(inv.RemainingBalance()), true)

	if inv.IsOverdue(d.today()) {
		pdf.SetX(pageRight - 75)
		pdf.SetTextColor(192, 0, 0)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(75, lineH, "OVERDUE", "", 1, "R", false, 0, "")
		pdf.SetTextColor(40, 40, 40)
	}

	// Notes and payment details
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	if strings.TrimSpace(inv.Notes) != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, txt(inv.Notes), "", "L", false)
		pdf.Ln(2)
	}
	if strings.TrimSpace(org.BankDetails) != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Payment details", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, txt(org.BankDetails), "", "L", false)
		pdf.Ln(2)
	}
	if d.PublicURL != "" {
		pdf.SetTextColor(31, 78, 121)
		pdf.CellFormat(0, 5, "View online", "", 1, "L", false, 0, d.PublicURL)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "draw invoice PDF", err)
	}
	return buf.Bytes(), nil
}

func abnLine(abn string) string {
	if strings.TrimSpace(abn) == "" {
		return ""
	}
	return "ABN " + abn
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const invoicePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Invoice {{.Invoice.InvoiceNumber}} from {{.Organization.Name}}</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 760px; margin: 24px auto; color: #222; padding: 0 12px; }
  h1 { color: #1f4e79; margin-bottom: 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { padding: 6px; border-bottom: 1px solid #e3e3e3; }
  th { text-align: left; background: #f4f6f8; }
  .num { text-align: right; }
  .totals td { border: none; }
  .overdue { color: #c00000; font-weight: bold; }
  .muted { color: #666; }
</style>
</head>
<body>
<h1>{{.Organization.Name}}</h1>
<p class="muted">{{with .Organization.ABN}}ABN {{.}} &middot; {{end}}{{.Organization.Email}}</p>

<h2>Invoice {{.Invoice.InvoiceNumber}}</h2>
<p>Issued {{date .Invoice.IssueDate}}, due {{date .Invoice.DueDate}}{{if .Overdue}} <span class="overdue">Overdue</span>{{end}}</p>
{{with .Client}}<p>Bill to: <strong>{{.Name}}</strong>{{with .Address}}<br>{{.}}{{end}}</p>{{end}}

<table>
<tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
{{range .Invoice.LineItems}}<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Amount}}</td></tr>
{{end}}
</table>

<table class="totals">
<tr><td class="num">Subtotal</td><td class="num">{{money .Invoice.Subtotal}}</td></tr>
<tr><td class="num">GST</td><td class="num">{{money .Invoice.GSTAmount}}</td></tr>
<tr><td class="num"><strong>Total</strong></td><td class="num"><strong>{{money .Invoice.TotalAmount}}</strong></td></tr>
<tr><td class="num">Paid</td><td class="num">{{money .Invoice.AmountPaid}}</td></tr>
<tr><td class="num"><strong>Balance due</strong></td><td class="num"><strong>{{money .Balance}}</strong></td></tr>
</table>

{{with .Invoice.Notes}}<h3>Notes</h3><p>{{notes .}}</p>{{end}}
{{with .Organization.BankDetails}}<h3>Payment details</h3><p>{{notes .}}</p>{{end}}
</body>
</html>`

var invoicePageTmpl = template.Must(template.New("invoice_page").Funcs(templateFuncs).Parse(invoicePageTemplate))

type invoicePageView struct {
	InvoiceDocument
	Overdue bool
	Balance decimal.Decimal
}

// InvoiceHTML renders the customer-facing invoice page. Internal notes are
// never part of it.
func InvoiceHTML(d InvoiceDocument) (string, error) {
	if d.Invoice == nil || d.Organization == nil {
		return "", NewRenderError(ErrCodeTemplate, "invoice page needs an invoice and an organization", nil)
	}
	view := invoicePageView{
		InvoiceDocument: d,
		Overdue:         d.Invoice.IsOverdue(d.today()),
		Balance:         d.Invoice.RemainingBalance(),
	}
	var buf bytes.Buffer
	if err := invoicePageTmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplate, fmt.Sprintf("render invoice %s", d.Invoice.InvoiceNumber), err)
	}
	return buf.String(), nil
}

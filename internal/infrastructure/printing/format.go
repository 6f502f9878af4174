package printing

import (
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Free-text fields may carry basic formatting pasted from other tools
	notesPolicy = bluemonday.UGCPolicy()
	// Names and addresses are plain text
	textPolicy = bluemonday.StrictPolicy()

	moneyPrinter = message.NewPrinter(language.English)
)

// FormatMoney renders an amount as dollars with thousands separators
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	f, _ := d.Round(2).Float64()
	return sign + "$" + moneyPrinter.Sprintf("%.2f", f)
}

// FormatDate renders a calendar date
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

// notesHTML sanitizes user-entered notes and keeps their line breaks
func notesHTML(s string) template.HTML {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	clean := notesPolicy.Sanitize(s)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(clean, "\n", "<br>"))
}

// plainText strips markup for output that is not HTML, such as drawn PDFs
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

var templateFuncs = template.FuncMap{
	"money": FormatMoney,
	"date":  FormatDate,
	"notes": notesHTML,
	"datetime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	},
}

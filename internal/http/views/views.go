// Package views renders the HTML pages of the front-end from embedded
// templates. Each page is parsed together with the shared layout.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hongminglow/recharge-web/internal/flash"
	"github.com/hongminglow/recharge-web/internal/forms"
	"github.com/hongminglow/recharge-web/internal/models"
	"github.com/hongminglow/recharge-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageValidate        = "validate"
	PageRegister        = "register"
	PagePlans           = "plans"
	PagePayment         = "payment"
	PagePaymentComplete = "payment_complete"
	PageAdminLogin      = "admin_login"
	PageDashboard       = "dashboard"
	PageHistory         = "history"
	PageNotFound        = "not_found"
	PageServerError     = "server_error"
)

var pageNames = []string{
	PageValidate, PageRegister, PagePlans, PagePayment, PagePaymentComplete,
	PageAdminLogin, PageDashboard, PageHistory, PageNotFound, PageServerError,
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Session session.Session
	Notice  *flash.Notice
	// Error and Success are dismissible inline notices for this render only.
	Error   string
	Success string
	Fields  forms.FieldErrors
	Data    any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all embedded templates.
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Static returns the embedded static assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var printer = message.NewPrinter(language.MustParse("en-IN"))

var funcs = template.FuncMap{
	"rupees":      Rupees,
	"wholeRupees": WholeRupees,
	"longDate":    LongDate,
	"shortDate":   ShortDate,
	"orNA":        orNA,
	"daysOrNA":    daysOrNA,
	"seconds":     func(d time.Duration) string { return fmt.Sprintf("%.1f", d.Seconds()) },
	"notice":      newAlert,
}

type alert struct {
	Kind    string
	Message string
	ID      string
}

func newAlert(kind any, message, id string) alert {
	return alert{Kind: fmt.Sprint(kind), Message: message, ID: id}
}

// Rupees formats an amount for display.
func Rupees(amount float64) string {
	return printer.Sprintf("₹%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}

// WholeRupees truncates an amount toward zero before formatting it. A
// truncated amount of zero renders as "N/A".
func WholeRupees(amount float64) string {
	whole := math.Trunc(amount)
	if whole == 0 {
		return "N/A"
	}
	return Rupees(whole)
}

// LongDate renders dates like "05 Nov 2026".
func LongDate(d models.Date) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format("02 Jan 2006")
}

// ShortDate renders dates like "05/11/2026".
func ShortDate(d models.Date) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format("02/01/2006")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func daysOrNA(days int) string {
	if days <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d days", days)
}

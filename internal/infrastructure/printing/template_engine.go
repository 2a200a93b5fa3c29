package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/divan/num2words"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var titleCaser = cases.Title(language.English)

// TemplateEngine executes the embedded document templates. Templates are
// parsed once; Execute is safe for concurrent use.
type TemplateEngine struct {
	currency string
	funcMap  template.FuncMap
	tmpl     *template.Template
}

// NewTemplateEngine parses the embedded templates. currency prefixes
// formatted amounts and amounts in words.
func NewTemplateEngine(currency string) (*TemplateEngine, error) {
	e := &TemplateEngine{currency: strings.ToUpper(strings.TrimSpace(currency))}
	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatAmount":   formatAmount,
		"amountInWords":  e.amountInWords,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"add":            add,
		"sub":            sub,
		"default":        defaultFunc,
	}

	tmpl, err := template.New("documents").Funcs(e.funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse templates", err)
	}
	e.tmpl = tmpl
	return e, nil
}

// Execute renders the named template (file name without directory)
func (e *TemplateEngine) Execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats a value with the currency code
// Example: 1234.5 -> "AED 1,234.50"
func (e *TemplateEngine) formatMoney(v any) string {
	if e.currency == "" {
		return formatAmount(v)
	}
	return e.currency + " " + formatAmount(v)
}

// formatAmount formats a value with thousand separators and two decimals
// Example: 1234.5 -> "1,234.50"
func formatAmount(v any) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + result.String() + "." + decPart
}

// amountInWords spells out an amount for cheque-style printing
// Example: 1250.75 -> "AED One Thousand Two Hundred Fifty and 75/100 Only"
func (e *TemplateEngine) amountInWords(v any) string {
	d := toDecimal(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "Minus "
		d = d.Abs()
	}

	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).IntPart()

	words := "Zero"
	if whole.IsPositive() {
		words = titleCase(num2words.Convert(int(whole.IntPart())))
	}

	var b strings.Builder
	if e.currency != "" {
		b.WriteString(e.currency)
		b.WriteString(" ")
	}
	b.WriteString(sign)
	b.WriteString(words)
	if cents > 0 {
		b.WriteString(" and ")
		fmt.Fprintf(&b, "%02d/100", cents)
	}
	b.WriteString(" Only")
	return b.String()
}

// formatDate formats a calendar date as DD/MM/YYYY
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// formatDateTime formats a timestamp as DD/MM/YYYY HH:MM
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	return titleCaser.String(s)
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

func defaultFunc(def, val any) any {
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return def
	}
	if val == nil {
		return def
	}
	return val
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts dates and timestamps to time.Time
func toTime(v any) time.Time {
	switch val := v.(type) {
	case shared.Date:
		return val.Time
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}

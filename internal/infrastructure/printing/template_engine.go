package printing

import (
	"bytes"
	"context"
	"html/template"
	"maps"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used for number formatting when no locale is configured
var DefaultLocale = language.BrazilianPortuguese

// TemplateEngine renders report templates with locale-aware formatting helpers.
// It uses Go's html/template package, so report data is escaped by default.
type TemplateEngine struct {
	locale      language.Tag
	templateDir string
	printer     *message.Printer
	funcMap     template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocale sets the locale used by the number formatting functions
func WithLocale(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.locale = tag
	}
}

// WithTemplateDir lets files in dir override the embedded report templates
func WithTemplateDir(dir string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.templateDir = dir
	}
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{locale: DefaultLocale}
	for _, opt := range opts {
		opt(e)
	}
	e.printer = message.NewPrinter(e.locale)

	upper := cases.Upper(e.locale)
	title := cases.Title(e.locale)

	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatNumber":   e.formatNumber,
		"formatInt":      e.formatInt,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"truncate":       truncate,
		"upper":          upper.String,
		"title":          title.String,
	}
	return e
}

// Locale returns the configured locale
func (e *TemplateEngine) Locale() language.Tag {
	return e.locale
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "template rendering cancelled", err)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderReport renders one of the embedded report templates
func (e *TemplateEngine) RenderReport(ctx context.Context, report ReportTemplate, data any) (string, error) {
	content, err := loadReportTemplate(e.templateDir, report)
	if err != nil {
		return "", err
	}
	return e.RenderString(ctx, string(report), content, data)
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats a value as Brazilian real, e.g. "R$ 1.234,56" for pt-BR
func (e *TemplateEngine) formatMoney(v decimal.Decimal) string {
	return "R$ " + e.formatNumber(v)
}

// formatNumber formats a value with two fraction digits using the locale separators
func (e *TemplateEngine) formatNumber(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return e.printer.Sprintf("%.2f", f)
}

func (e *TemplateEngine) formatInt(v int64) string {
	return e.printer.Sprintf("%d", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// truncate shortens s to at most limit runes, ending with "..." when cut
func truncate(s string, limit int) string {
	if limit <= 3 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

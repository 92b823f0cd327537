package printing

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportTemplate identifies an embedded report template
type ReportTemplate string

const (
	ReportProducts  ReportTemplate = "templates/products_report.html"
	ReportDashboard ReportTemplate = "templates/dashboard_report.html"
)

// ReportTemplates returns every report template shipped with the binary
func ReportTemplates() []ReportTemplate {
	return []ReportTemplate{ReportProducts, ReportDashboard}
}

// LoadReportTemplate loads the embedded HTML content of a report template
func LoadReportTemplate(report ReportTemplate) (string, error) {
	content, err := templateFS.ReadFile(string(report))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewRenderError(ErrCodeTemplateNotFound, "unknown report template: "+string(report), err)
		}
		return "", NewRenderError(ErrCodeTemplateNotFound, "failed to read template "+string(report), err)
	}
	return string(content), nil
}

// loadReportTemplate prefers a same-named file in dir, falling back to the
// embedded copy when dir is empty or the file does not exist.
func loadReportTemplate(dir string, report ReportTemplate) (string, error) {
	if dir != "" {
		content, err := os.ReadFile(filepath.Join(dir, path.Base(string(report))))
		if err == nil {
			return string(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", NewRenderError(ErrCodeTemplateNotFound, "failed to read template override", err)
		}
	}
	return LoadReportTemplate(report)
}

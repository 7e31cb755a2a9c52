package html

import (
	"html/template"
	"os"

	"menu-audit/internal/config"
	"menu-audit/internal/exporter/common"
	"menu-audit/internal/model"
)

// HTMLExporter writes a single-page audit report.
type HTMLExporter struct{}

// NewHTMLExporter creates a new HTMLExporter
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// ReportData is the template input.
type ReportData struct {
	Summary common.Summary
	Files   []FileData
}

// FileData is one audited file with its findings grouped for display.
type FileData struct {
	*model.FileAudit
	StatusLabel string
	Groups      []common.SheetGroup
}

// Export writes <file_name>.html.
func (e *HTMLExporter) Export(report *model.Report, cfg *config.Config) error {
	data := ReportData{Summary: common.Summarize(report)}
	for _, fa := range common.SortFiles(report) {
		data.Files = append(data.Files, FileData{
			FileAudit:   fa,
			StatusLabel: common.StatusLabel(fa.Status),
			Groups:      common.GroupFindings(fa.Findings),
		})
	}

	tmpl, err := template.New("audit-report").Funcs(template.FuncMap{
		"statusClass": statusClass,
	}).Parse(AuditReportTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.GetOutputPath(".html"))
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// statusClass returns the CSS class of a status badge.
func statusClass(s model.Status) string {
	switch s {
	case model.StatusPassed:
		return "status-passed"
	case model.StatusRejected:
		return "status-rejected"
	case model.StatusBlocked:
		return "status-blocked"
	case model.StatusFailed:
		return "status-failed"
	default:
		return "status-default"
	}
}

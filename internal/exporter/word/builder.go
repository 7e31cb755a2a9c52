package word

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"menu-audit/internal/config"
	"menu-audit/internal/exporter/common"
	"menu-audit/internal/model"
)

// WordExporter writes the audit report as a .docx for mailing to suppliers.
type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	tmpl, err := writeTemplate()
	if err != nil {
		return err
	}
	defer os.Remove(tmpl)

	r, err := docx.ReadDocxFile(tmpl)
	if err != nil {
		return fmt.Errorf("failed to read docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	sum := common.Summarize(report)

	doc.Replace(PlaceholderDate, sum.AnalysisDate, -1)
	doc.Replace(PlaceholderFiles, fmt.Sprintf("%d", sum.Files), -1)
	doc.Replace(PlaceholderFindings, fmt.Sprintf("%d", sum.Findings), -1)
	doc.Replace(PlaceholderContent, BuildContent(report), -1)

	if err := doc.WriteToFile(cfg.GetOutputPath(".docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}
	return nil
}

// BuildContent renders the report body as plain text; the docx library
// handles XML encoding.
func BuildContent(report *model.Report) string {
	var sb strings.Builder
	sum := common.Summarize(report)

	sb.WriteString("總覽\n")
	sb.WriteString(fmt.Sprintf("  • 通過：%d\n", sum.Passed))
	sb.WriteString(fmt.Sprintf("  • 退件：%d\n", sum.Rejected))
	sb.WriteString(fmt.Sprintf("  • 拒絕審核：%d\n", sum.Blocked))
	sb.WriteString(fmt.Sprintf("  • 檔案錯誤：%d\n", sum.Failed))
	for _, c := range sum.ByCategory {
		sb.WriteString(fmt.Sprintf("  • %s：%d\n", c.Label, c.Count))
	}
	sb.WriteString("\n" + strings.Repeat("=", 60) + "\n\n")

	files := common.SortFiles(report)
	for i, fa := range files {
		buildFileText(&sb, fa)
		if i < len(files)-1 {
			sb.WriteString("\n" + strings.Repeat("-", 60) + "\n\n")
		}
	}
	return sb.String()
}

func buildFileText(sb *strings.Builder, fa *model.FileAudit) {
	sb.WriteString(fmt.Sprintf("[%s] %s\n", common.StatusLabel(fa.Status), fa.File))
	if fa.Mode != "" {
		sb.WriteString(fmt.Sprintf("模式：%s\n", fa.Mode))
	}
	if fa.Error != "" {
		sb.WriteString(fmt.Sprintf("錯誤：%s\n", fa.Error))
	}
	if len(fa.Findings) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("問題數：%d\n\n", len(fa.Findings)))
	for _, group := range common.GroupFindings(fa.Findings) {
		sb.WriteString(fmt.Sprintf("工作表 %s\n", group.Sheet))
		for _, day := range group.Days {
			sb.WriteString(fmt.Sprintf("  %s\n", day.Day))
			for _, f := range day.Findings {
				sb.WriteString(fmt.Sprintf("    %-6s %s：%s\n", f.Cell(), f.Category.Label(), f.Reason))
			}
		}
	}
}

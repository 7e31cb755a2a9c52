package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"menu-audit/internal/config"
	"menu-audit/internal/exporter/common"
	"menu-audit/internal/model"
)

// Sheet names of the summary workbook.
const (
	SheetOverview = "總覽"
	SheetFiles    = "檔案"
	SheetFindings = "問題明細"
)

// ExcelExporter writes the summary workbook.
type ExcelExporter struct{}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	files := common.SortFiles(report)

	if err := e.writeOverview(f, styler, common.Summarize(report)); err != nil {
		return err
	}
	if err := e.writeFiles(f, styler, files); err != nil {
		return err
	}
	if err := e.writeFindings(f, styler, files); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	return f.SaveAs(cfg.GetOutputPath(".xlsx"))
}

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, sum common.Summary) error {
	sheet := SheetOverview
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	e.writeRow(f, sheet, row, []any{"項目", "數量"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val int
	}{
		{"審核檔案", sum.Files},
		{"通過", sum.Passed},
		{"退件", sum.Rejected},
		{"拒絕審核", sum.Blocked},
		{"檔案錯誤", sum.Failed},
		{"問題總數", sum.Findings},
	}
	for _, m := range metrics {
		e.writeRow(f, sheet, row, []any{m.Key, m.Val}, s.DefaultStyle)
		row++
	}

	if len(sum.ByCategory) > 0 {
		row++ // spacer
		e.writeRow(f, sheet, row, []any{"問題類別", "數量"}, s.HeaderStyle)
		row++
		for _, c := range sum.ByCategory {
			e.writeRow(f, sheet, row, []any{c.Label, c.Count}, s.DefaultStyle)
			row++
		}
	}

	f.SetCellValue(sheet, "D1", "審核日期")
	f.SetCellValue(sheet, "E1", sum.AnalysisDate)
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "D", "E", 14)
	return nil
}

func (e *ExcelExporter) writeFiles(f *excelize.File, s *Styler, files []*model.FileAudit) error {
	sheet := SheetFiles
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"No", "檔案", "模式", "狀態", "問題數", "略過工作表", "標註檔", "錯誤"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	e.freezeHeader(f, sheet)

	for i, fa := range files {
		row := i + 2
		e.writeRow(f, sheet, row, []any{
			i + 1,
			fa.File,
			fa.Mode,
			common.StatusLabel(fa.Status),
			len(fa.Findings),
			strings.Join(fa.Skipped, ", "),
			fa.Output,
			fa.Error,
		}, s.DefaultStyle)
		status := fmt.Sprintf("D%d", row)
		f.SetCellStyle(sheet, status, status, s.ForStatus(fa.Status))
	}

	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "F", "H", 30)
	return nil
}

func (e *ExcelExporter) writeFindings(f *excelize.File, s *Styler, files []*model.FileAudit) error {
	sheet := SheetFindings
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"檔案", "工作表", "日期", "儲存格", "類別", "說明", "規則"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	e.freezeHeader(f, sheet)

	row := 2
	for _, fa := range files {
		for _, group := range common.GroupFindings(fa.Findings) {
			for _, day := range group.Days {
				for _, finding := range day.Findings {
					e.writeRow(f, sheet, row, []any{
						fa.File,
						group.Sheet,
						day.Day,
						finding.Cell(),
						finding.Category.Label(),
						finding.Reason,
						finding.Rule,
					}, s.DefaultStyle)
					row++
				}
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "F", "F", 60)
	return nil
}

func (e *ExcelExporter) freezeHeader(f *excelize.File, sheet string) {
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []any, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

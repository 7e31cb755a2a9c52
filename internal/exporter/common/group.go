// Package common holds the report shaping shared by every exporter.
package common

import (
	"slices"
	"strings"

	"menu-audit/internal/model"
)

// Summary is the headline count block of a report.
type Summary struct {
	AnalysisDate string
	Files        int
	Passed       int
	Rejected     int
	Blocked      int
	Failed       int
	Findings     int
	ByCategory   []CategoryCount
}

// CategoryCount is one line of the per-category tally.
type CategoryCount struct {
	Category model.Category
	Label    string
	Count    int
}

// Summarize computes the report headline. Categories without findings are
// omitted; the rest keep model.Categories order.
func Summarize(r *model.Report) Summary {
	s := Summary{
		AnalysisDate: r.AnalysisDate,
		Files:        len(r.Files),
		Passed:       r.CountStatus(model.StatusPassed),
		Rejected:     r.CountStatus(model.StatusRejected),
		Blocked:      r.CountStatus(model.StatusBlocked),
		Failed:       r.CountStatus(model.StatusFailed),
		Findings:     r.TotalFindings(),
	}

	totals := make(map[model.Category]int)
	for _, f := range r.Files {
		for cat, n := range f.CountByCategory() {
			totals[cat] += n
		}
	}
	for _, cat := range model.Categories() {
		if n := totals[cat]; n > 0 {
			s.ByCategory = append(s.ByCategory, CategoryCount{Category: cat, Label: cat.Label(), Count: n})
		}
	}
	return s
}

// SheetGroup is the findings of one sheet, grouped by day.
type SheetGroup struct {
	Sheet string
	Days  []DayGroup
}

// DayGroup is the findings of one day column.
type DayGroup struct {
	Day      string
	Findings []model.Finding
}

// GroupFindings groups findings by sheet, then day, keeping first-seen order
// at both levels and discovery order inside each day.
func GroupFindings(findings []model.Finding) []SheetGroup {
	var groups []SheetGroup
	sheetIdx := make(map[string]int)
	dayIdx := make(map[[2]string]int)

	for _, f := range findings {
		si, ok := sheetIdx[f.Sheet]
		if !ok {
			si = len(groups)
			sheetIdx[f.Sheet] = si
			groups = append(groups, SheetGroup{Sheet: f.Sheet})
		}
		key := [2]string{f.Sheet, f.Day}
		di, ok := dayIdx[key]
		if !ok {
			di = len(groups[si].Days)
			dayIdx[key] = di
			groups[si].Days = append(groups[si].Days, DayGroup{Day: f.Day})
		}
		groups[si].Days[di].Findings = append(groups[si].Days[di].Findings, f)
	}
	return groups
}

// statusRank orders files so the ones needing attention come first.
func statusRank(s model.Status) int {
	switch s {
	case model.StatusBlocked:
		return 0
	case model.StatusFailed:
		return 1
	case model.StatusRejected:
		return 2
	default:
		return 3
	}
}

// SortFiles returns the report's files ordered by status (blocked, failed,
// rejected, passed), then by file name. The report is not modified.
func SortFiles(r *model.Report) []*model.FileAudit {
	files := slices.Clone(r.Files)
	slices.SortStableFunc(files, func(a, b *model.FileAudit) int {
		if d := statusRank(a.Status) - statusRank(b.Status); d != 0 {
			return d
		}
		return strings.Compare(a.File, b.File)
	})
	return files
}

// StatusLabel is the Chinese status shown in reports.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusPassed:
		return "通過"
	case model.StatusRejected:
		return "退件"
	case model.StatusBlocked:
		return "拒絕審核"
	case model.StatusFailed:
		return "檔案錯誤"
	default:
		return string(s)
	}
}

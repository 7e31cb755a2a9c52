package exporter

import (
	"encoding/json"
	"fmt"
	"os"

	"menu-audit/internal/config"
	"menu-audit/internal/exporter/common"
	"menu-audit/internal/model"
)

// JSONExporter writes the machine-readable report.
type JSONExporter struct{}

// NewJSONExporter creates a new JSONExporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type jsonSummary struct {
	Files      int            `json:"files"`
	Passed     int            `json:"passed"`
	Rejected   int            `json:"rejected"`
	Blocked    int            `json:"blocked"`
	Failed     int            `json:"failed"`
	Findings   int            `json:"findings"`
	ByCategory map[string]int `json:"by_category"`
}

type jsonReport struct {
	*model.Report
	Summary jsonSummary `json:"summary"`
}

// Export writes <file_name>.json.
func (e *JSONExporter) Export(report *model.Report, cfg *config.Config) error {
	sum := common.Summarize(report)
	out := jsonReport{
		Report: report,
		Summary: jsonSummary{
			Files:      sum.Files,
			Passed:     sum.Passed,
			Rejected:   sum.Rejected,
			Blocked:    sum.Blocked,
			Failed:     sum.Failed,
			Findings:   sum.Findings,
			ByCategory: make(map[string]int),
		},
	}
	for _, c := range sum.ByCategory {
		out.Summary.ByCategory[string(c.Category)] = c.Count
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(cfg.GetOutputPath(".json"), data, 0644)
}

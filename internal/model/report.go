package model

import "time"

// Status is the outcome of auditing one file.
type Status string

const (
	StatusPassed   Status = "passed"   // audited, no findings
	StatusRejected Status = "rejected" // audited, findings present
	StatusBlocked  Status = "blocked"  // identity not recognized, not audited
	StatusFailed   Status = "failed"   // file could not be read
)

// FileAudit is the result of one audit call.
type FileAudit struct {
	RunID     string    `json:"run_id"`
	File      string    `json:"file"`
	Mode      string    `json:"mode,omitempty"`    // profile title, e.g. "國小"
	Profile   string    `json:"profile,omitempty"` // profile name
	Status    Status    `json:"status"`
	Findings  []Finding `json:"findings"`
	Skipped   []string  `json:"skipped_sheets,omitempty"`
	Output    string    `json:"output,omitempty"` // path of the annotated copy
	Error     string    `json:"error,omitempty"`
	AuditedAt time.Time `json:"audited_at"`

	// Annotated holds the highlighted workbook bytes.
	Annotated []byte `json:"-"`
}

// CountByCategory tallies findings per category.
func (a *FileAudit) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, f := range a.Findings {
		counts[f.Category]++
	}
	return counts
}

// Report aggregates every file audited in one invocation.
type Report struct {
	AnalysisDate string       `json:"analysis_date"`
	Files        []*FileAudit `json:"files"`
}

// NewReport creates an empty report dated today
func NewReport() *Report {
	return &Report{
		AnalysisDate: time.Now().Format("2006-01-02"),
		Files:        make([]*FileAudit, 0),
	}
}

// Add appends a file result.
func (r *Report) Add(a *FileAudit) {
	if a == nil {
		return
	}
	r.Files = append(r.Files, a)
}

// TotalFindings counts findings across all files.
func (r *Report) TotalFindings() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Findings)
	}
	return n
}

// CountStatus counts files with the given status.
func (r *Report) CountStatus(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// HasFailures reports whether any file was blocked or failed.
func (r *Report) HasFailures() bool {
	return r.CountStatus(StatusBlocked) > 0 || r.CountStatus(StatusFailed) > 0
}

package audit

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"menu-audit/internal/grid"
	"menu-audit/internal/logger"
	"menu-audit/internal/model"
	"menu-audit/internal/profile"
	"menu-audit/internal/render"
)

// Input describes one workbook to audit. Either Path or Reader (with Name)
// must be set.
type Input struct {
	Path   string
	Name   string
	Reader io.Reader

	// Identity overrides the file name for profile resolution.
	Identity string
	// Profile selects a profile by name and skips identity resolution.
	Profile string
}

func (in Input) name() string {
	if in.Name != "" {
		return in.Name
	}
	return filepath.Base(in.Path)
}

// Auditor runs full audits: resolve, load, evaluate, render.
type Auditor struct {
	registry *profile.Registry
	styles   render.Styles
}

// NewAuditor creates an auditor. A nil styles table uses the defaults.
func NewAuditor(reg *profile.Registry, styles render.Styles) *Auditor {
	if styles == nil {
		styles = render.DefaultStyles()
	}
	return &Auditor{registry: reg, styles: styles}
}

// Run audits one workbook. The returned FileAudit is always non-nil; when err
// is non-nil its Status is blocked (profile not resolved, file untouched) or
// failed (file could not be loaded).
func (a *Auditor) Run(in Input) (*model.FileAudit, error) {
	res := &model.FileAudit{
		RunID:     uuid.NewString(),
		File:      in.name(),
		AuditedAt: time.Now(),
	}

	p, err := a.resolve(in)
	if err != nil {
		res.Status = model.StatusBlocked
		res.Error = err.Error()
		return res, err
	}
	res.Mode = p.Title
	res.Profile = p.Name

	wb, err := open(in)
	if err != nil {
		res.Status = model.StatusFailed
		res.Error = err.Error()
		return res, err
	}
	defer wb.Close()

	result := NewEvaluator(p).Evaluate(wb)
	res.Findings = result.Findings
	res.Skipped = result.Skipped
	for _, sheet := range result.Skipped {
		logger.LogSkippedSheet(res.File, sheet, "no date anchor for profile "+p.Name)
	}

	if len(res.Findings) == 0 {
		res.Status = model.StatusPassed
		return res, nil
	}
	res.Status = model.StatusRejected

	if err := render.NewRenderer(wb, a.styles).Render(res.Findings); err != nil {
		logger.Warn("Highlighting %s was incomplete: %v", res.File, err)
	}
	data, err := wb.Bytes()
	if err != nil {
		logger.Warn("Could not serialize annotated copy of %s: %v", res.File, err)
		return res, nil
	}
	res.Annotated = data
	return res, nil
}

func (a *Auditor) resolve(in Input) (*profile.RuleProfile, error) {
	if in.Profile != "" {
		return a.registry.Get(in.Profile)
	}
	identity := in.Identity
	if identity == "" {
		identity = in.name()
	}
	return a.registry.Resolve(identity)
}

func open(in Input) (*grid.Workbook, error) {
	switch {
	case in.Reader != nil:
		return grid.OpenReader(in.name(), in.Reader)
	case in.Path != "":
		return grid.Open(in.Path)
	default:
		return nil, fmt.Errorf("%w: no path or reader given", grid.ErrInvalidFile)
	}
}

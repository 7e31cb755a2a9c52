// Package audit runs a rule profile over a workbook and produces Findings.
package audit

import (
	"time"

	"menu-audit/internal/anchor"
	"menu-audit/internal/logger"
	"menu-audit/internal/model"
	"menu-audit/internal/normalize"
	"menu-audit/internal/profile"
)

// Grid is the read side of a workbook the evaluator needs.
type Grid interface {
	Sheets() []string
	Rows(sheet string) int
	Text(sheet string, row, col int) string
}

// Result is the outcome of evaluating one workbook.
type Result struct {
	Findings []model.Finding
	Skipped  []string // sheets without an anchor
}

// Evaluator applies one profile's rule table.
type Evaluator struct {
	profile *profile.RuleProfile
	rules   []Rule
}

// NewEvaluator builds an evaluator for p with the standard rule table.
func NewEvaluator(p *profile.RuleProfile) *Evaluator {
	return &Evaluator{profile: p, rules: WeeklyRules()}
}

// Evaluate is a shorthand for NewEvaluator(p).Evaluate(g).
func Evaluate(g Grid, p *profile.RuleProfile) Result {
	return NewEvaluator(p).Evaluate(g)
}

// Evaluate scans every sheet. Findings are returned in discovery order:
// sheet, then data column, then row.
func (e *Evaluator) Evaluate(g Grid) Result {
	res := Result{Findings: make([]model.Finding, 0)}
	for _, sheet := range g.Sheets() {
		findings, ok := e.evaluateSheet(g, sheet)
		if !ok {
			logger.Debug("Skipping sheet %q: no anchor for profile %s", sheet, e.profile.Name)
			res.Skipped = append(res.Skipped, sheet)
			continue
		}
		res.Findings = append(res.Findings, findings...)
	}
	return res
}

func (e *Evaluator) evaluateSheet(g Grid, sheet string) ([]model.Finding, bool) {
	if w := e.profile.Weekly; w != nil {
		if row, ok := anchor.FindDateRow(g, sheet, w.LabelColumn); ok {
			return e.weekly(g, sheet, row), true
		}
	}
	if d := e.profile.Daily; d != nil {
		if rows := anchor.DateRows(g, sheet, d.LabelColumn); len(rows) > 0 {
			return e.daily(g, sheet, rows), true
		}
	}
	return nil, false
}

// Cell is the context a rule sees for one (row, data column) pair.
type Cell struct {
	Sheet       string
	Row         int
	Col         int
	Position    int    // index of Col among the profile's data columns
	FirstServed bool   // leftmost column of the week that is not a day off
	Label       string // normalized row label
	Text        string // trimmed display text of the data cell
	Day         string // date/day label of the column
	Weekday     time.Weekday

	grid   Grid
	layout *profile.WeeklyLayout
}

// Offset reads the trimmed text n rows below the cell in the same column.
// Positions past the sheet read as empty.
func (c *Cell) Offset(n int) string {
	return normalize.Text(c.grid.Text(c.Sheet, c.Row+n, c.Col))
}

// LabelAt reads the normalized label n rows below the cell.
func (c *Cell) LabelAt(n int) string {
	return normalize.Normalize(c.grid.Text(c.Sheet, c.Row+n, c.layout.LabelColumn), normalize.Structural)
}

func (c *Cell) finding(cat model.Category, rule, reason string) model.Finding {
	return model.Finding{
		Sheet:    c.Sheet,
		Day:      c.Day,
		Category: cat,
		Reason:   reason,
		Row:      c.Row,
		Col:      c.Col,
		Rule:     rule,
	}
}

func (e *Evaluator) weekly(g Grid, sheet string, anchorRow int) []model.Finding {
	w := e.profile.Weekly
	var out []model.Finding

	tracks := e.trackRows(g, sheet, anchorRow)

	served := 0
	for pos, col := range w.DataColumns {
		day := normalize.Normalize(g.Text(sheet, anchorRow, col), normalize.Structural)
		weekday := anchor.DayOf(day, pos)
		if day == "" {
			day = anchor.WeekdayName(weekday)
		}

		if isHoliday(g, sheet, anchorRow, col) {
			logger.Debug("Sheet %q column %d (%s) has no data, treated as a day off", sheet, col, day)
			continue
		}

		for r := anchorRow + 1; r < g.Rows(sheet); r++ {
			c := &Cell{
				Sheet:       sheet,
				Row:         r,
				Col:         col,
				Position:    pos,
				FirstServed: served == 0,
				Label:       normalize.Normalize(g.Text(sheet, r, w.LabelColumn), normalize.Structural),
				Text:        normalize.Text(g.Text(sheet, r, col)),
				Day:         day,
				Weekday:     weekday,
				grid:        g,
				layout:      w,
			}
			for _, rule := range e.rules {
				if rule.Applies(e.profile, c) {
					out = append(out, rule.Check(e.profile, c)...)
				}
			}
		}

		out = append(out, e.duplicateProtein(g, sheet, col, day, tracks)...)
		served++
	}

	return out
}

// isHoliday reports whether a data column is blank on every row below the
// anchor, i.e. no service that day.
func isHoliday(g Grid, sheet string, anchorRow, col int) bool {
	for r := anchorRow + 1; r < g.Rows(sheet); r++ {
		if !normalize.IsEmpty(g.Text(sheet, r, col), normalize.Structural) {
			return false
		}
	}
	return true
}

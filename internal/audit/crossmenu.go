package audit

import (
	"fmt"

	"menu-audit/internal/anchor"
	"menu-audit/internal/model"
	"menu-audit/internal/normalize"
)

// trackRow locates one menu track's main-dish row on a sheet.
type trackRow struct {
	name string
	row  int
}

// trackRows resolves every cross-menu track once per sheet. Tracks whose
// anchor is missing are dropped; fewer than two tracks disables the check.
func (e *Evaluator) trackRows(g Grid, sheet string, anchorRow int) []trackRow {
	cm := e.profile.CrossMenu
	if cm == nil || e.profile.Weekly == nil {
		return nil
	}
	var out []trackRow
	for _, t := range cm.Tracks {
		row, ok := anchor.FindLabelRow(g, sheet, e.profile.Weekly.LabelColumn, t.Anchor, anchorRow+1)
		if !ok {
			continue
		}
		out = append(out, trackRow{name: t.Name, row: row + t.Offset})
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// duplicateProtein flags a later track whose main dish shares a protein
// category with an earlier track on the same day.
func (e *Evaluator) duplicateProtein(g Grid, sheet string, col int, day string, tracks []trackRow) []model.Finding {
	if len(tracks) < 2 {
		return nil
	}

	type seen struct {
		track string
		dish  string
	}
	first := make(map[string]seen)

	var out []model.Finding
	for _, t := range tracks {
		dish := normalize.Normalize(g.Text(sheet, t.row, col), normalize.Structural)
		protein := e.profile.CrossMenu.Classify(dish)
		if protein == "" {
			continue
		}
		prev, dup := first[protein]
		if !dup {
			first[protein] = seen{track: t.name, dish: dish}
			continue
		}
		out = append(out, model.Finding{
			Sheet:    sheet,
			Day:      day,
			Category: model.CategoryDuplicateProtein,
			Reason: fmt.Sprintf("%s餐「%s」與%s餐「%s」主菜皆為%s",
				prev.track, prev.dish, t.name, dish, protein),
			Row:  t.row,
			Col:  col,
			Rule: "duplicate_protein",
		})
	}
	return out
}

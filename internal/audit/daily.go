package audit

import (
	"fmt"

	"menu-audit/internal/model"
	"menu-audit/internal/normalize"
)

// daily checks a one-row-per-day layout: every row whose label is a date and
// whose meal column is filled must carry a numeric value in each nutrient
// column. Findings are ordered by row, then by column.
func (e *Evaluator) daily(g Grid, sheet string, rows []int) []model.Finding {
	d := e.profile.Daily
	var out []model.Finding

	for _, r := range rows {
		if normalize.IsEmpty(g.Text(sheet, r, d.MealColumn), normalize.Structural) {
			continue
		}
		day := normalize.Normalize(g.Text(sheet, r, d.LabelColumn), normalize.Structural)

		for _, nc := range d.NutrientColumns {
			raw := normalize.Text(g.Text(sheet, r, nc.Column))
			value := normalize.Normalize(raw, normalize.PolicyFor(nc.ZeroIsBlank))
			mk := func(cat model.Category, reason string) model.Finding {
				return model.Finding{
					Sheet:    sheet,
					Day:      day,
					Category: cat,
					Reason:   reason,
					Row:      r,
					Col:      nc.Column,
					Rule:     "daily_nutrition",
				}
			}

			if value == normalize.Empty || !normalize.IsPlainNumber(value) {
				reason := fmt.Sprintf("%s 營養分析空白或格式錯誤", nc.Name)
				if value != normalize.Empty {
					reason = fmt.Sprintf("%s 營養分析空白或格式錯誤：%s", nc.Name, value)
				}
				out = append(out, mk(model.CategoryMissingValue, reason))
				continue
			}

			if n, ok := e.profile.NutrientNamed(nc.Name); ok {
				if f, bad := nutrientFinding(n, value, mk); bad {
					out = append(out, f)
				}
			}
		}
	}
	return out
}

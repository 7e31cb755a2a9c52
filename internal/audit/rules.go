package audit

import (
	"fmt"

	"menu-audit/internal/grid"
	"menu-audit/internal/logger"
	"menu-audit/internal/model"
	"menu-audit/internal/normalize"
	"menu-audit/internal/profile"
)

// Rule is one entry of the declarative rule table. Applies selects the cells
// the rule looks at; Check emits zero or more findings for such a cell.
type Rule struct {
	Name    string
	Applies func(p *profile.RuleProfile, c *Cell) bool
	Check   func(p *profile.RuleProfile, c *Cell) []model.Finding
}

// WeeklyRules returns the per-cell rules in evaluation order. New checks are
// added here.
func WeeklyRules() []Rule {
	return []Rule{
		{Name: "mandatory", Applies: isMandatoryRow, Check: checkMandatory},
		{Name: "dropped_name", Applies: isDishRow, Check: checkDroppedName},
		{Name: "contract_spec", Applies: hasContractSpecs, Check: checkContractSpecs},
		{Name: "nutrition", Applies: isNutrientRow, Check: checkNutrition},
		{Name: "forbidden_day", Applies: hasForbiddenDay, Check: checkForbiddenDay},
		{Name: "custom", Applies: hasCustomRule, Check: checkCustomRules},
	}
}

// Dish rows are owned by the dropped-name rule: an empty dish row with no
// detail below means no dish was served that day.
func isMandatoryRow(p *profile.RuleProfile, c *Cell) bool {
	return p.Weekly.IsCritical(c.Label) && !isDishLabel(p, c.Label)
}

// isDishLabel reports whether a label names a dish category. Nutrient rows
// such as 蔬菜類 take precedence over a dish keyword they happen to contain.
func isDishLabel(p *profile.RuleProfile, label string) bool {
	return !p.IsNutrientLabel(label) && p.Weekly.IsDish(label)
}

func checkMandatory(p *profile.RuleProfile, c *Cell) []model.Finding {
	policy := normalize.Structural
	if n, ok := p.NutrientFor(c.Label); ok {
		policy = n.Policy()
	}
	if !normalize.IsEmpty(c.Text, policy) {
		return nil
	}
	if c.FirstServed && p.Weekly.IsFirstDayExempt(c.Label) {
		return nil
	}
	return []model.Finding{c.finding(model.CategoryMissingValue, "mandatory", fmt.Sprintf("%s 未填寫", c.Label))}
}

func isDishRow(p *profile.RuleProfile, c *Cell) bool {
	return isDishLabel(p, c.Label)
}

func checkDroppedName(p *profile.RuleProfile, c *Cell) []model.Finding {
	if !normalize.IsEmpty(c.Text, normalize.Structural) {
		return nil
	}
	offset := p.Weekly.DetailRowOffset
	// The row below is only a detail row when it does not start another item.
	if next := c.LabelAt(offset); startsItem(p, next) {
		return nil
	}
	detail := c.Offset(offset)
	if normalize.IsEmpty(detail, normalize.Structural) {
		return nil
	}
	reason := fmt.Sprintf("%s 有食材明細「%s」但缺少菜名", c.Label, detail)
	return []model.Finding{c.finding(model.CategoryMissingDishName, "dropped_name", reason)}
}

func startsItem(p *profile.RuleProfile, label string) bool {
	return p.IsNutrientLabel(label) || p.Weekly.IsDish(label) || p.Weekly.IsCritical(label)
}

func hasContractSpecs(p *profile.RuleProfile, c *Cell) bool {
	return len(p.ContractSpecs) > 0 && c.Text != ""
}

func checkContractSpecs(p *profile.RuleProfile, c *Cell) []model.Finding {
	var out []model.Finding
	for _, spec := range p.ContractSpecs {
		if normalize.ContainsFolded(c.Text, spec.Item) && !normalize.ContainsFolded(c.Text, spec.Required) {
			reason := fmt.Sprintf("「%s」未符合合約規格 %s（目前：%s）", spec.Item, spec.Required, c.Text)
			out = append(out, c.finding(model.CategorySpecMismatch, "contract_spec", reason))
		}
	}
	return out
}

func isNutrientRow(p *profile.RuleProfile, c *Cell) bool {
	_, ok := p.NutrientFor(c.Label)
	return ok
}

// Blank nutrient cells are left to the mandatory rule.
func checkNutrition(p *profile.RuleProfile, c *Cell) []model.Finding {
	n, _ := p.NutrientFor(c.Label)
	if normalize.IsEmpty(c.Text, n.Policy()) {
		return nil
	}
	if f, ok := nutrientFinding(n, c.Text, func(cat model.Category, reason string) model.Finding {
		return c.finding(cat, "nutrition", reason)
	}); ok {
		return []model.Finding{f}
	}
	return nil
}

// nutrientFinding compares the first number in text against n. Text without
// a number compares as 0.
func nutrientFinding(n profile.Nutrient, text string, mk func(model.Category, string) model.Finding) (model.Finding, bool) {
	v, parsed := normalize.FirstNumber(text)
	bad, want := n.Check(v)
	if !bad {
		return model.Finding{}, false
	}

	cat := model.CategoryOutOfRange
	if n.MinimumOnly() {
		cat = model.CategoryPortionInsufficient
	}
	reason := fmt.Sprintf("%s %s 不符標準 %s", n.Name, text, want)
	if !parsed {
		reason = fmt.Sprintf("%s「%s」無法解析數值（以 0 計），標準 %s", n.Name, text, want)
	}
	return mk(cat, reason), true
}

func hasForbiddenDay(p *profile.RuleProfile, c *Cell) bool {
	return len(p.ForbiddenOn(c.Weekday)) > 0 && c.Text != ""
}

func checkForbiddenDay(p *profile.RuleProfile, c *Cell) []model.Finding {
	for _, kw := range p.ForbiddenOn(c.Weekday) {
		if normalize.ContainsFolded(c.Text, kw) {
			reason := fmt.Sprintf("%s 不可供應含「%s」的菜色：%s", c.Day, kw, c.Text)
			return []model.Finding{c.finding(model.CategoryForbiddenContent, "forbidden_day", reason)}
		}
	}
	return nil
}

func hasCustomRule(p *profile.RuleProfile, c *Cell) bool {
	for _, r := range p.CustomRules {
		if r.AppliesTo(c.Label) {
			return true
		}
	}
	return false
}

func checkCustomRules(p *profile.RuleProfile, c *Cell) []model.Finding {
	text := normalize.Normalize(c.Text, normalize.Reading)
	number, _ := normalize.FirstNumber(text)
	env := profile.Env{
		Text:    text,
		Number:  number,
		Present: text != normalize.Empty,
		Label:   c.Label,
		Day:     c.Day,
		Weekday: int(c.Weekday),
	}

	var out []model.Finding
	for _, r := range p.CustomRules {
		if !r.AppliesTo(c.Label) {
			continue
		}
		fired, err := r.Eval(env)
		if err != nil {
			logger.Warn("Custom rule %s failed at %s!%s: %v", r.Name, c.Sheet, grid.Ref(c.Row, c.Col), err)
			continue
		}
		if !fired {
			continue
		}
		reason := r.Reason
		if reason == "" {
			reason = fmt.Sprintf("%s 違反規則 %s", c.Label, r.Name)
		}
		out = append(out, c.finding(r.Category, "custom:"+r.Name, reason))
	}
	return out
}

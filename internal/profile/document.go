package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"menu-audit/internal/model"
)

// YAML shape of profiles.yaml. Columns are spreadsheet letters so layout
// drift is a data change.
type document struct {
	Version  string       `yaml:"version"`
	Profiles []profileDoc `yaml:"profiles"`
}

type profileDoc struct {
	Name          string              `yaml:"name"`
	Title         string              `yaml:"title"`
	Keywords      []string            `yaml:"keywords"`
	Weekly        *weeklyDoc          `yaml:"weekly"`
	Daily         *dailyDoc           `yaml:"daily"`
	Nutrients     []nutrientDoc       `yaml:"nutrients"`
	ContractSpecs []specDoc           `yaml:"contract_specs"`
	Forbidden     map[string][]string `yaml:"forbidden"`
	CrossMenu     *crossMenuDoc       `yaml:"cross_menu"`
	CustomRules   []customRuleDoc     `yaml:"custom_rules"`
}

type weeklyDoc struct {
	LabelColumn     string   `yaml:"label_column"`
	DataColumns     []string `yaml:"data_columns"`
	DetailRowOffset int      `yaml:"detail_row_offset"`
	Critical        []string `yaml:"critical"`
	Dishes          []string `yaml:"dishes"`
	FirstDayExempt  []string `yaml:"first_day_exempt"`
}

type dailyDoc struct {
	LabelColumn     string              `yaml:"label_column"`
	MealColumn      string              `yaml:"meal_column"`
	NutrientColumns []nutrientColumnDoc `yaml:"nutrient_columns"`
}

type nutrientColumnDoc struct {
	Column      string `yaml:"column"`
	Name        string `yaml:"name"`
	ZeroIsBlank bool   `yaml:"zero_is_blank"`
}

type nutrientDoc struct {
	Name        string   `yaml:"name"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	ZeroIsBlank bool     `yaml:"zero_is_blank"`
}

type specDoc struct {
	Item     string `yaml:"item"`
	Required string `yaml:"required"`
}

type crossMenuDoc struct {
	Tracks   []trackDoc   `yaml:"tracks"`
	Proteins []proteinDoc `yaml:"proteins"`
}

type trackDoc struct {
	Name   string `yaml:"name"`
	Anchor string `yaml:"anchor"`
	Offset int    `yaml:"offset"`
}

type proteinDoc struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type customRuleDoc struct {
	Name     string   `yaml:"name"`
	Labels   []string `yaml:"labels"`
	Expr     string   `yaml:"expr"`
	Category string   `yaml:"category"`
	Reason   string   `yaml:"reason"`
}

func (d *profileDoc) build() (*RuleProfile, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("profile without name")
	}
	if len(d.Keywords) == 0 {
		return nil, fmt.Errorf("profile %q: at least one keyword is required", d.Name)
	}
	if d.Weekly == nil && d.Daily == nil {
		return nil, fmt.Errorf("profile %q: weekly or daily layout is required", d.Name)
	}

	p := &RuleProfile{
		Name:      d.Name,
		Title:     d.Title,
		Keywords:  append([]string(nil), d.Keywords...),
		Forbidden: make(map[time.Weekday][]string),
	}
	if p.Title == "" {
		p.Title = d.Name
	}

	var err error
	if d.Weekly != nil {
		if p.Weekly, err = d.Weekly.build(); err != nil {
			return nil, fmt.Errorf("profile %q: weekly: %w", d.Name, err)
		}
	}
	if d.Daily != nil {
		if p.Daily, err = d.Daily.build(); err != nil {
			return nil, fmt.Errorf("profile %q: daily: %w", d.Name, err)
		}
	}

	for _, n := range d.Nutrients {
		if n.Name == "" {
			return nil, fmt.Errorf("profile %q: nutrient without name", d.Name)
		}
		if n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			return nil, fmt.Errorf("profile %q: nutrient %q: min %v > max %v", d.Name, n.Name, *n.Min, *n.Max)
		}
		p.Nutrients = append(p.Nutrients, Nutrient{Name: n.Name, Min: n.Min, Max: n.Max, ZeroIsBlank: n.ZeroIsBlank})
	}

	// Nutrient labels win over dish keywords, so a dish keyword naming a
	// nutrient could never match a dish row.
	if p.Weekly != nil {
		for _, dish := range p.Weekly.Dishes {
			if p.IsNutrientLabel(dish) {
				return nil, fmt.Errorf("profile %q: dish keyword %q names a nutrient", d.Name, dish)
			}
		}
	}

	for _, s := range d.ContractSpecs {
		if s.Item == "" || s.Required == "" {
			return nil, fmt.Errorf("profile %q: contract spec needs item and required", d.Name)
		}
		p.ContractSpecs = append(p.ContractSpecs, ContractSpec{Item: s.Item, Required: s.Required})
	}

	keys := make([]string, 0, len(d.Forbidden))
	for key := range d.Forbidden {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		day, ok := parseWeekdayKey(key)
		if !ok {
			return nil, fmt.Errorf("profile %q: unknown weekday %q in forbidden", d.Name, key)
		}
		p.Forbidden[day] = append(p.Forbidden[day], d.Forbidden[key]...)
	}

	if d.CrossMenu != nil {
		if p.CrossMenu, err = d.CrossMenu.build(); err != nil {
			return nil, fmt.Errorf("profile %q: cross_menu: %w", d.Name, err)
		}
	}

	for _, c := range d.CustomRules {
		cat, err := model.ParseCategory(c.Category)
		if err != nil {
			return nil, fmt.Errorf("profile %q: custom rule %q: %w", d.Name, c.Name, err)
		}
		rule := &CustomRule{
			Name:     c.Name,
			Labels:   append([]string(nil), c.Labels...),
			Expr:     c.Expr,
			Category: cat,
			Reason:   c.Reason,
		}
		if err := compileCustomRule(rule); err != nil {
			return nil, fmt.Errorf("profile %q: %w", d.Name, err)
		}
		p.CustomRules = append(p.CustomRules, rule)
	}

	return p, nil
}

func (d *weeklyDoc) build() (*WeeklyLayout, error) {
	label, err := columnIndex(d.LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("label_column: %w", err)
	}
	if len(d.DataColumns) == 0 {
		return nil, fmt.Errorf("data_columns must not be empty")
	}
	w := &WeeklyLayout{
		LabelColumn:     label,
		DetailRowOffset: d.DetailRowOffset,
		Critical:        append([]string(nil), d.Critical...),
		Dishes:          append([]string(nil), d.Dishes...),
		FirstDayExempt:  append([]string(nil), d.FirstDayExempt...),
	}
	if w.DetailRowOffset <= 0 {
		w.DetailRowOffset = 1
	}
	for _, c := range d.DataColumns {
		idx, err := columnIndex(c)
		if err != nil {
			return nil, fmt.Errorf("data_columns: %w", err)
		}
		w.DataColumns = append(w.DataColumns, idx)
	}
	return w, nil
}

func (d *dailyDoc) build() (*DailyLayout, error) {
	label, err := columnIndex(d.LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("label_column: %w", err)
	}
	meal, err := columnIndex(d.MealColumn)
	if err != nil {
		return nil, fmt.Errorf("meal_column: %w", err)
	}
	if len(d.NutrientColumns) == 0 {
		return nil, fmt.Errorf("nutrient_columns must not be empty")
	}
	l := &DailyLayout{LabelColumn: label, MealColumn: meal}
	for _, nc := range d.NutrientColumns {
		idx, err := columnIndex(nc.Column)
		if err != nil {
			return nil, fmt.Errorf("nutrient_columns: %w", err)
		}
		l.NutrientColumns = append(l.NutrientColumns, NutrientColumn{Column: idx, Name: nc.Name, ZeroIsBlank: nc.ZeroIsBlank})
	}
	return l, nil
}

func (d *crossMenuDoc) build() (*CrossMenu, error) {
	if len(d.Tracks) < 2 {
		return nil, fmt.Errorf("at least two tracks are required")
	}
	c := &CrossMenu{}
	for _, t := range d.Tracks {
		if t.Anchor == "" {
			return nil, fmt.Errorf("track %q has no anchor", t.Name)
		}
		c.Tracks = append(c.Tracks, Track{Name: t.Name, Anchor: t.Anchor, Offset: t.Offset})
	}
	for _, g := range d.Proteins {
		c.Proteins = append(c.Proteins, ProteinGroup{Category: g.Category, Keywords: append([]string(nil), g.Keywords...)})
	}
	return c, nil
}

// columnIndex converts a column letter ("C") to a 0-based index.
func columnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func parseWeekdayKey(key string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	default:
		return 0, false
	}
}

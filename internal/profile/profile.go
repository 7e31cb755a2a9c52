// Package profile holds the rule profiles that drive an audit and resolves
// which profile applies to an uploaded file.
package profile

import (
	"fmt"
	"strings"
	"time"

	"menu-audit/internal/normalize"
)

// RuleProfile is the configuration of one audit mode. Profiles are built by
// the registry loader and must not be modified afterwards.
type RuleProfile struct {
	Name     string
	Title    string
	Keywords []string

	Weekly        *WeeklyLayout
	Daily         *DailyLayout
	Nutrients     []Nutrient
	ContractSpecs []ContractSpec
	Forbidden     map[time.Weekday][]string
	CrossMenu     *CrossMenu
	CustomRules   []*CustomRule
}

// WeeklyLayout describes a menu grid with one column per weekday and one row
// per menu item, anchored at the row holding the date marker.
type WeeklyLayout struct {
	LabelColumn     int
	DataColumns     []int
	DetailRowOffset int
	Critical        []string
	Dishes          []string
	FirstDayExempt  []string
}

// DailyLayout describes a nutrition table with one row per dated day.
type DailyLayout struct {
	LabelColumn     int
	MealColumn      int
	NutrientColumns []NutrientColumn
}

// NutrientColumn is one nutrient cell position in the daily layout.
type NutrientColumn struct {
	Column      int
	Name        string
	ZeroIsBlank bool
}

// Nutrient is a threshold on a nutrient row. A nil bound is open.
type Nutrient struct {
	Name        string
	Min         *float64
	Max         *float64
	ZeroIsBlank bool
}

// Policy returns the blank policy for the nutrient's cells.
func (n Nutrient) Policy() normalize.Policy {
	return normalize.PolicyFor(n.ZeroIsBlank)
}

// MinimumOnly reports whether the nutrient only sets a lower bound.
func (n Nutrient) MinimumOnly() bool {
	return n.Min != nil && n.Max == nil
}

// Check returns whether v violates the thresholds and a short description of
// the expected range.
func (n Nutrient) Check(v float64) (bool, string) {
	switch {
	case n.Min != nil && n.Max != nil:
		return v < *n.Min || v > *n.Max, fmt.Sprintf("%s-%s", formatBound(*n.Min), formatBound(*n.Max))
	case n.Min != nil:
		return v < *n.Min, fmt.Sprintf(">= %s", formatBound(*n.Min))
	case n.Max != nil:
		return v > *n.Max, fmt.Sprintf("<= %s", formatBound(*n.Max))
	default:
		return false, ""
	}
}

func formatBound(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// ContractSpec requires that a cell naming Item also carries Required,
// typically a contractual gram weight.
type ContractSpec struct {
	Item     string
	Required string
}

// CrossMenu configures the duplicate-protein check between parallel menus.
type CrossMenu struct {
	Tracks   []Track
	Proteins []ProteinGroup
}

// Track locates one menu option's main dish: the row whose label contains
// Anchor, shifted down by Offset.
type Track struct {
	Name   string
	Anchor string
	Offset int
}

// ProteinGroup maps keywords onto a coarse protein category.
type ProteinGroup struct {
	Category string
	Keywords []string
}

// Classify returns the first protein category whose keyword occurs in text.
func (c *CrossMenu) Classify(text string) string {
	for _, g := range c.Proteins {
		for _, kw := range g.Keywords {
			if normalize.ContainsFolded(text, kw) {
				return g.Category
			}
		}
	}
	return ""
}

// IsCritical reports whether a row label marks a mandatory field.
func (w *WeeklyLayout) IsCritical(label string) bool {
	return containsAny(label, w.Critical)
}

// IsDish reports whether a row label names a dish category.
func (w *WeeklyLayout) IsDish(label string) bool {
	return containsAny(label, w.Dishes)
}

// IsFirstDayExempt reports whether the label may stay empty on the first
// weekday column.
func (w *WeeklyLayout) IsFirstDayExempt(label string) bool {
	return containsAny(label, w.FirstDayExempt)
}

// NutrientFor returns the nutrient whose name occurs in the label.
func (p *RuleProfile) NutrientFor(label string) (Nutrient, bool) {
	if label == "" {
		return Nutrient{}, false
	}
	for _, n := range p.Nutrients {
		if strings.Contains(label, n.Name) {
			return n, true
		}
	}
	return Nutrient{}, false
}

// IsNutrientLabel reports whether a row label names a nutrient, either a
// thresholded one or a daily nutrient column.
func (p *RuleProfile) IsNutrientLabel(label string) bool {
	if _, ok := p.NutrientFor(label); ok {
		return true
	}
	if label == "" || p.Daily == nil {
		return false
	}
	for _, c := range p.Daily.NutrientColumns {
		if strings.Contains(label, c.Name) {
			return true
		}
	}
	return false
}

// NutrientNamed returns the nutrient with exactly this name.
func (p *RuleProfile) NutrientNamed(name string) (Nutrient, bool) {
	for _, n := range p.Nutrients {
		if n.Name == name {
			return n, true
		}
	}
	return Nutrient{}, false
}

// ForbiddenOn returns the forbidden keywords configured for a weekday.
func (p *RuleProfile) ForbiddenOn(day time.Weekday) []string {
	return p.Forbidden[day]
}

// Matches reports whether identity contains any of the profile's keywords.
func (p *RuleProfile) Matches(identity string) bool {
	return containsAny(identity, p.Keywords)
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

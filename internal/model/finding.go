package model

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Category classifies a Finding. It also keys the highlight style.
type Category string

const (
	CategoryMissingValue        Category = "missing_value"
	CategoryMissingDishName     Category = "missing_dish_name"
	CategoryOutOfRange          Category = "out_of_range"
	CategoryPortionInsufficient Category = "portion_insufficient"
	CategorySpecMismatch        Category = "spec_mismatch"
	CategoryForbiddenContent    Category = "forbidden_content"
	CategoryDuplicateProtein    Category = "duplicate_protein"
)

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{
		CategoryMissingValue,
		CategoryMissingDishName,
		CategoryOutOfRange,
		CategoryPortionInsufficient,
		CategorySpecMismatch,
		CategoryForbiddenContent,
		CategoryDuplicateProtein,
	}
}

// ParseCategory validates a category name from a profile or config file.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown finding category %q", s)
}

// Label returns the human-readable category shown in reports.
func (c Category) Label() string {
	switch c {
	case CategoryMissingValue:
		return "漏填"
	case CategoryMissingDishName:
		return "缺菜名"
	case CategoryOutOfRange:
		return "數據超出範圍"
	case CategoryPortionInsufficient:
		return "份量不足"
	case CategorySpecMismatch:
		return "規格不符"
	case CategoryForbiddenContent:
		return "禁用食材"
	case CategoryDuplicateProtein:
		return "主菜蛋白質重複"
	default:
		return string(c)
	}
}

// Finding is one detected violation. Findings are created by the rule
// evaluator and never modified afterwards.
type Finding struct {
	Sheet    string   `json:"sheet"`
	Day      string   `json:"day"`
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
	Row      int      `json:"row"` // 0-based
	Col      int      `json:"col"` // 0-based
	Rule     string   `json:"rule"`
}

// Cell returns the A1 reference of the finding's cell.
func (f Finding) Cell() string {
	name, err := excelize.CoordinatesToCellName(f.Col+1, f.Row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", f.Row+1, f.Col+1)
	}
	return name
}

// String formats the finding as "Sheet!C4 [漏填] 4/29(三): reason".
func (f Finding) String() string {
	return fmt.Sprintf("%s!%s [%s] %s: %s", f.Sheet, f.Cell(), f.Category.Label(), f.Day, f.Reason)
}

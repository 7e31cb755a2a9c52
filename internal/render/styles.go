// Package render paints findings onto the workbook copy.
package render

import (
	"fmt"

	"menu-audit/internal/model"
)

// DefaultFont is the font family applied to highlighted cells.
const DefaultFont = "微軟正黑體"

// Style is the highlight applied for one finding category.
type Style struct {
	Fill      string // pattern fill, "#RRGGBB"
	FontColor string
	Bold      bool
	Font      string
	Size      float64
	Marker    string // written into the cell when non-empty
}

// Styles maps categories to their highlight.
type Styles map[model.Category]Style

// DefaultStyles returns the built-in highlight table.
func DefaultStyles() Styles {
	base := func(fill, color string, bold bool, marker string) Style {
		return Style{Fill: fill, FontColor: color, Bold: bold, Font: DefaultFont, Size: 12, Marker: marker}
	}
	return Styles{
		model.CategoryMissingValue:        base("#000000", "#FFFFFF", true, "❌數據缺失"),
		model.CategoryMissingDishName:     base("#C00000", "#FFFFFF", true, "⚠缺菜名"),
		model.CategoryOutOfRange:          base("#FFFF00", "#C00000", true, ""),
		model.CategoryPortionInsufficient: base("#FFC000", "#000000", true, ""),
		model.CategorySpecMismatch:        base("#FFC7CE", "#9C0006", true, ""),
		model.CategoryForbiddenContent:    base("#7030A0", "#FFFFFF", true, ""),
		model.CategoryDuplicateProtein:    base("#BDD7EE", "#1F4E79", true, ""),
	}
}

// Override returns a copy of s with the given font, per-category markers and
// per-category fills applied. Keys must be category names.
func (s Styles) Override(font string, markers, fills map[string]string) (Styles, error) {
	out := make(Styles, len(s))
	for k, v := range s {
		if font != "" {
			v.Font = font
		}
		out[k] = v
	}
	for name, marker := range markers {
		cat, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("render.markers: %w", err)
		}
		st := out.For(cat)
		st.Marker = marker
		out[cat] = st
	}
	for name, fill := range fills {
		cat, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("render.fills: %w", err)
		}
		st := out.For(cat)
		st.Fill = fill
		out[cat] = st
	}
	return out, nil
}

// For returns the style for cat, falling back to the out-of-range look.
func (s Styles) For(cat model.Category) Style {
	if st, ok := s[cat]; ok {
		return st
	}
	return Style{Fill: "#FFFF00", FontColor: "#C00000", Bold: true, Font: DefaultFont, Size: 12}
}

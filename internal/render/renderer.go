package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"menu-audit/internal/grid"
	"menu-audit/internal/model"
)

type styleKey struct {
	category model.Category
	base     int
}

type cellKey struct {
	sheet    string
	row, col int
}

// Renderer writes highlights through the workbook's Write path.
type Renderer struct {
	wb     *grid.Workbook
	styles Styles

	ids  map[styleKey]int
	base map[int]int // highlight style id -> style it was merged onto
}

// NewRenderer creates a renderer for wb.
func NewRenderer(wb *grid.Workbook, styles Styles) *Renderer {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Renderer{
		wb:     wb,
		styles: styles,
		ids:    make(map[styleKey]int),
		base:   make(map[int]int),
	}
}

// Render highlights every cell that carries a finding. A cell with several
// findings gets the style of the category listed first in
// model.Categories. Rendering the same findings again changes nothing.
func (r *Renderer) Render(findings []model.Finding) error {
	var (
		order []cellKey
		pick  = make(map[cellKey]model.Category)
	)
	for _, f := range findings {
		k := cellKey{sheet: f.Sheet, row: f.Row, col: f.Col}
		cur, ok := pick[k]
		if !ok {
			order = append(order, k)
			pick[k] = f.Category
			continue
		}
		if rank(f.Category) < rank(cur) {
			pick[k] = f.Category
		}
	}

	var errs []error
	for _, k := range order {
		if err := r.paint(k, pick[k]); err != nil {
			errs = append(errs, fmt.Errorf("%s!%s: %w", k.sheet, grid.Ref(k.row, k.col), err))
		}
	}
	return errors.Join(errs...)
}

func rank(c model.Category) int {
	if i := slices.Index(model.Categories(), c); i >= 0 {
		return i
	}
	return len(model.Categories())
}

func (r *Renderer) paint(k cellKey, cat model.Category) error {
	base, err := r.wb.StyleAt(k.sheet, k.row, k.col)
	if err != nil {
		return err
	}
	if orig, ok := r.base[base]; ok {
		base = orig
	}

	st := r.styles.For(cat)
	id, err := r.styleID(cat, st, base)
	if err != nil {
		return err
	}
	return r.wb.Write(k.sheet, k.row, k.col, st.Marker, id)
}

func (r *Renderer) styleID(cat model.Category, st Style, base int) (int, error) {
	key := styleKey{category: cat, base: base}
	if id, ok := r.ids[key]; ok {
		return id, nil
	}

	f := r.wb.File()
	merged := &excelize.Style{}
	if base != 0 {
		if existing, err := f.GetStyle(base); err == nil && existing != nil {
			merged = existing
		}
	}
	merged.Fill = excelize.Fill{Type: "pattern", Color: []string{st.Fill}, Pattern: 1}
	merged.Font = &excelize.Font{
		Bold:   st.Bold,
		Color:  st.FontColor,
		Family: st.Font,
		Size:   st.Size,
	}

	id, err := f.NewStyle(merged)
	if err != nil {
		return 0, err
	}
	r.ids[key] = id
	if id != base {
		r.base[id] = base
	}
	return id, nil
}

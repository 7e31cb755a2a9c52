package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"menu-audit/internal/grid"
	"menu-audit/internal/model"
)

func newWorkbook(t *testing.T) *grid.Workbook {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"", "日期", "4/27(一)", "4/28(二)"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"", "主食", "", "白飯"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"", "熱量", "900", "700"}))

	bordered, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "D4D4D4", Style: 1},
			{Type: "right", Color: "D4D4D4", Style: 1},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C3", "C3", bordered))

	wb, err := grid.FromFile("menu.xlsx", f)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func testFindings() []model.Finding {
	return []model.Finding{
		{Sheet: "Sheet1", Row: 1, Col: 2, Category: model.CategoryMissingValue, Rule: "mandatory"},
		{Sheet: "Sheet1", Row: 2, Col: 2, Category: model.CategoryOutOfRange, Rule: "nutrition"},
	}
}

func TestRenderWritesMarkerAndStyle(t *testing.T) {
	wb := newWorkbook(t)
	r := NewRenderer(wb, DefaultStyles())

	require.NoError(t, r.Render(testFindings()))

	assert.Equal(t, "❌數據缺失", wb.Text("Sheet1", 1, 2))
	// no marker for out_of_range: the value stays
	assert.Equal(t, "900", wb.Text("Sheet1", 2, 2))

	id, err := wb.StyleAt("Sheet1", 1, 2)
	require.NoError(t, err)
	st, err := wb.File().GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)
	assert.Equal(t, DefaultFont, st.Font.Family)
	assert.Equal(t, 1, st.Fill.Pattern)

	// untouched cell keeps its style
	other, err := wb.StyleAt("Sheet1", 1, 3)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestRenderKeepsExistingBorders(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, NewRenderer(wb, nil).Render(testFindings()))

	id, err := wb.StyleAt("Sheet1", 2, 2)
	require.NoError(t, err)
	st, err := wb.File().GetStyle(id)
	require.NoError(t, err)
	assert.Len(t, st.Border, 2)
	assert.Equal(t, 1, st.Fill.Pattern)
}

func TestRenderIsIdempotent(t *testing.T) {
	wb := newWorkbook(t)
	r := NewRenderer(wb, DefaultStyles())
	findings := testFindings()

	require.NoError(t, r.Render(findings))
	first := map[[2]int]int{}
	for _, f := range findings {
		id, err := wb.StyleAt(f.Sheet, f.Row, f.Col)
		require.NoError(t, err)
		first[[2]int{f.Row, f.Col}] = id
	}

	require.NoError(t, r.Render(findings))
	for _, f := range findings {
		id, err := wb.StyleAt(f.Sheet, f.Row, f.Col)
		require.NoError(t, err)
		assert.Equal(t, first[[2]int{f.Row, f.Col}], id, "cell %s", f.Cell())
	}
	assert.Equal(t, "❌數據缺失", wb.Text("Sheet1", 1, 2))
	assert.Equal(t, "900", wb.Text("Sheet1", 2, 2))
}

func TestRenderDoesNotMutateFindings(t *testing.T) {
	wb := newWorkbook(t)
	findings := testFindings()
	before := append([]model.Finding(nil), findings...)

	require.NoError(t, NewRenderer(wb, nil).Render(findings))
	assert.Equal(t, before, findings)
}

func TestRenderPicksHighestPriorityCategoryPerCell(t *testing.T) {
	wb := newWorkbook(t)
	r := NewRenderer(wb, DefaultStyles())
	findings := []model.Finding{
		{Sheet: "Sheet1", Row: 1, Col: 3, Category: model.CategoryForbiddenContent},
		{Sheet: "Sheet1", Row: 1, Col: 3, Category: model.CategorySpecMismatch},
	}
	require.NoError(t, r.Render(findings))

	got, err := wb.StyleAt("Sheet1", 1, 3)
	require.NoError(t, err)

	want, err := r.styleID(model.CategorySpecMismatch, r.styles.For(model.CategorySpecMismatch), 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "白飯", wb.Text("Sheet1", 1, 3))
}

func TestRenderReportsBadCells(t *testing.T) {
	wb := newWorkbook(t)
	err := NewRenderer(wb, nil).Render([]model.Finding{
		{Sheet: "missing", Row: 0, Col: 0, Category: model.CategoryMissingValue},
		{Sheet: "Sheet1", Row: 1, Col: 2, Category: model.CategoryMissingValue},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, grid.ErrOutOfRange)
	// the valid finding is still painted
	assert.Equal(t, "❌數據缺失", wb.Text("Sheet1", 1, 2))
}

func TestStylesOverride(t *testing.T) {
	st, err := DefaultStyles().Override("Arial",
		map[string]string{"missing_value": "MISSING"},
		map[string]string{"out_of_range": "#FF0000"})
	require.NoError(t, err)

	assert.Equal(t, "MISSING", st[model.CategoryMissingValue].Marker)
	assert.Equal(t, "#FF0000", st[model.CategoryOutOfRange].Fill)
	assert.Equal(t, "Arial", st[model.CategoryDuplicateProtein].Font)
	// the default table is untouched
	assert.Equal(t, "❌數據缺失", DefaultStyles()[model.CategoryMissingValue].Marker)

	_, err = DefaultStyles().Override("", map[string]string{"nope": "x"}, nil)
	assert.Error(t, err)
}

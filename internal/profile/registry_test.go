package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-audit/internal/model"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Default()
	require.NoError(t, err)
	return reg
}

func TestDefaultRegistryLoads(t *testing.T) {
	reg := defaultRegistry(t)
	assert.NotEmpty(t, reg.Version())
	assert.Equal(t, []string{"kindergarten", "elementary", "food_court", "vegetarian", "light_meal"}, reg.Names())

	elem, err := reg.Get("elementary")
	require.NoError(t, err)
	require.NotNil(t, elem.Weekly)
	assert.Equal(t, 2, elem.Weekly.LabelColumn)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, elem.Weekly.DataColumns)
	assert.Equal(t, 1, elem.Weekly.DetailRowOffset)
	require.NotNil(t, elem.Daily)
	assert.Equal(t, 9, elem.Daily.NutrientColumns[0].Column)
	assert.Equal(t, 15, elem.Daily.NutrientColumns[6].Column)
	assert.Equal(t, []string{"辣", "麻辣", "剝皮辣椒"}, elem.ForbiddenOn(time.Wednesday))
	assert.Empty(t, elem.ForbiddenOn(time.Monday))

	food, err := reg.Get("美食街")
	require.NoError(t, err)
	assert.Nil(t, food.Weekly)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, columnsOf(food.Daily))
}

func columnsOf(d *DailyLayout) []int {
	var out []int
	for _, c := range d.NutrientColumns {
		out = append(out, c.Column)
	}
	return out
}

func TestResolve(t *testing.T) {
	reg := defaultRegistry(t)

	tests := []struct {
		identity string
		expected string
	}{
		{"113學年度小學4月菜單.xlsx", "elementary"},
		{"小學_素食_輕食_第5週.xlsx", "elementary"},
		{"新北小學午餐(修正版)v3.xlsx", "elementary"},
		{"幼兒園小學共用菜單.xlsx", "kindergarten"},
		{"美食街五月.xlsx", "food_court"},
		{"小學美食街.xlsx", "elementary"},
		{"蔬食週菜單.xlsx", "vegetarian"},
		{"輕食A_B餐.xlsx", "light_meal"},
	}

	for _, tt := range tests {
		p, err := reg.Resolve(tt.identity)
		require.NoError(t, err, tt.identity)
		assert.Equal(t, tt.expected, p.Name, tt.identity)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	reg := defaultRegistry(t)
	for i := 0; i < 20; i++ {
		p, err := reg.Resolve("小學 團膳 新北 2025 final 素食.xlsx")
		require.NoError(t, err)
		assert.Equal(t, "elementary", p.Name)
	}
}

func TestResolveBlocksUnknownIdentity(t *testing.T) {
	reg := defaultRegistry(t)
	_, err := reg.Resolve("menu.xlsx")
	assert.ErrorIs(t, err, ErrUnrecognizedIdentity)

	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestNutrientCheck(t *testing.T) {
	lo, hi := 600.0, 850.0
	ranged := Nutrient{Name: "熱量", Min: &lo, Max: &hi}
	bad, want := ranged.Check(599)
	assert.True(t, bad)
	assert.Equal(t, "600-850", want)
	bad, _ = ranged.Check(700)
	assert.False(t, bad)
	bad, _ = ranged.Check(851)
	assert.True(t, bad)
	assert.False(t, ranged.MinimumOnly())

	floor := 1.5
	veg := Nutrient{Name: "蔬菜類", Min: &floor}
	bad, want = veg.Check(1)
	assert.True(t, bad)
	assert.Equal(t, ">= 1.5", want)
	assert.True(t, veg.MinimumOnly())
}

func TestIsNutrientLabel(t *testing.T) {
	reg := defaultRegistry(t)
	elem, err := reg.Get("elementary")
	require.NoError(t, err)
	kinder, err := reg.Get("kindergarten")
	require.NoError(t, err)

	assert.True(t, elem.IsNutrientLabel("蔬菜類"))
	assert.True(t, elem.IsNutrientLabel("油脂與堅果種子類(份)"))
	assert.True(t, kinder.IsNutrientLabel("蔬菜類"))
	assert.False(t, elem.IsNutrientLabel("蔬菜"))
	assert.False(t, elem.IsNutrientLabel(""))
	assert.True(t, elem.Weekly.IsDish("蔬菜類"))
}

func TestCustomRuleEval(t *testing.T) {
	reg := defaultRegistry(t)
	elem, err := reg.Get("elementary")
	require.NoError(t, err)
	require.Len(t, elem.CustomRules, 1)

	rule := elem.CustomRules[0]
	assert.Equal(t, model.CategoryOutOfRange, rule.Category)
	assert.True(t, rule.AppliesTo("鈉(mg)"))
	assert.False(t, rule.AppliesTo("熱量"))

	fired, err := rule.Eval(Env{Present: true, Number: 1200})
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = rule.Eval(Env{Present: true, Number: 800})
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestClassifyProtein(t *testing.T) {
	reg := defaultRegistry(t)
	light, err := reg.Get("light_meal")
	require.NoError(t, err)
	require.NotNil(t, light.CrossMenu)

	assert.Equal(t, "雞", light.CrossMenu.Classify("香烤雞腿排"))
	assert.Equal(t, "魚", light.CrossMenu.Classify("鹽烤鮭魚"))
	assert.Equal(t, "海鮮", light.CrossMenu.Classify("鮮蝦沙拉"))
	assert.Equal(t, "", light.CrossMenu.Classify("田園沙拉"))
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", `version: "1"`},
		{"no keywords", `profiles: [{name: a, weekly: {label_column: C, data_columns: [D]}}]`},
		{"no layout", `profiles: [{name: a, keywords: [x]}]`},
		{"bad column", `profiles: [{name: a, keywords: [x], weekly: {label_column: "1", data_columns: [D]}}]`},
		{"min above max", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}, nutrients: [{name: 熱量, min: 9, max: 1}]}]`},
		{"bad weekday", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}, forbidden: {someday: [辣]}}]`},
		{"bad category", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}, custom_rules: [{name: r, expr: "true", category: nope}]}]`},
		{"bad expr", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}, custom_rules: [{name: r, expr: "number +", category: out_of_range}]}]`},
		{"non bool expr", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}, custom_rules: [{name: r, expr: "number", category: out_of_range}]}]`},
		{"dish names nutrient", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D], dishes: [蔬菜類]}, nutrients: [{name: 蔬菜, min: 1}]}]`},
		{"dish names daily column", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D], dishes: [水果類]}, daily: {label_column: A, meal_column: B, nutrient_columns: [{column: N, name: 水果類}]}}]`},
		{"unknown field", `profiles: [{name: a, keywords: [x], colour: red, weekly: {label_column: C, data_columns: [D]}}]`},
		{"duplicate", `profiles: [{name: a, keywords: [x], weekly: {label_column: C, data_columns: [D]}}, {name: a, keywords: [y], weekly: {label_column: C, data_columns: [D]}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := `version: "test"
profiles:
  - name: custom
    keywords: [自訂]
    weekly: {label_column: B, data_columns: [C, D]}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	p, err := reg.Resolve("自訂菜單.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Title)
	assert.Equal(t, 1, p.Weekly.LabelColumn)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

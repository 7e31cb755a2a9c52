package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-audit/internal/model"
)

func categories(fs []model.Finding) []model.Category {
	out := make([]model.Category, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Category)
	}
	return out
}

func TestMissingValueAndDroppedName(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"週菜單", week([]string{"4/28(一)"},
		[]string{"主食", "白飯"},
		[]string{"主菜", ""},
		[]string{"", "高麗菜、紅蘿蔔"},
		[]string{"熱量", ""},
	)})

	res := Evaluate(wb, mustProfile(t, "elementary"))

	require.Len(t, res.Findings, 2)
	assert.Equal(t, []model.Category{model.CategoryMissingDishName, model.CategoryMissingValue}, categories(res.Findings))

	dish := res.Findings[0]
	assert.Equal(t, "D3", dish.Cell())
	assert.Equal(t, "週菜單", dish.Sheet)
	assert.Equal(t, "4/28(一)", dish.Day)
	assert.Contains(t, dish.Reason, "高麗菜")

	assert.Equal(t, "D5", res.Findings[1].Cell())
	assert.Empty(t, res.Skipped)
}

func TestCriticalLabelBlankAliases(t *testing.T) {
	p := mustProfile(t, "elementary")
	for _, v := range []string{"", "  ", "nan", "None", "0", "0.0"} {
		wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
			[]string{"主食", v},
			[]string{"湯", "味噌湯"},
		)})
		res := Evaluate(wb, p)
		require.Len(t, res.Findings, 1, "value %q", v)
		assert.Equal(t, model.CategoryMissingValue, res.Findings[0].Category)
		assert.Equal(t, "D2", res.Findings[0].Cell())
	}
}

func TestDishRowWithoutDetailIsNotAFinding(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
		[]string{"主食", "白飯"},
		[]string{"副菜", ""},
		[]string{"", ""},
		[]string{"湯", "紫菜湯"},
	)})
	assert.Empty(t, Evaluate(wb, mustProfile(t, "elementary")).Findings)
}

func TestDroppedNameIgnoresNextItemRow(t *testing.T) {
	// the row below the empty dish is another dish, not its ingredients
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
		[]string{"主食", "白飯"},
		[]string{"副菜", ""},
		[]string{"蔬菜", "炒青江菜"},
	)})
	assert.Empty(t, Evaluate(wb, mustProfile(t, "elementary")).Findings)
}

func TestDroppedNameAtSheetBottom(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
		[]string{"主食", "白飯"},
		[]string{"主菜", ""},
	)})
	assert.Empty(t, Evaluate(wb, mustProfile(t, "elementary")).Findings)
}

func TestNutrientRowIsNotADish(t *testing.T) {
	// 蔬菜類 contains the dish keyword 蔬菜 but is a nutrient serving row
	rows := func(calories string) [][]any {
		return week([]string{"4/28(一)"},
			[]string{"主食", "白飯"},
			[]string{"熱量", calories},
			[]string{"蔬菜類", ""},
			[]string{"油脂與堅果種子類", "2.5"},
		)
	}

	elementary := buildWorkbook(t, sheetRows{"s", rows("720")})
	assert.Empty(t, Evaluate(elementary, mustProfile(t, "elementary")).Findings)

	// no 蔬菜類 threshold here, only a daily nutrient column
	kindergarten := buildWorkbook(t, sheetRows{"s", rows("500")})
	assert.Empty(t, Evaluate(kindergarten, mustProfile(t, "kindergarten")).Findings)
}

func TestDroppedNameStopsAtNutrientRow(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
		[]string{"主食", "白飯"},
		[]string{"主菜", ""},
		[]string{"豆魚蛋肉類", "2"},
	)})
	assert.Empty(t, Evaluate(wb, mustProfile(t, "elementary")).Findings)
}

func TestHolidayColumnSkipsAllRules(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)", "4/30(三)"},
		[]string{"主食", "白飯", "", "糙米飯"},
		[]string{"主菜", "滷雞腿 160g", "", "豬排 120g"},
		[]string{"", "醬油、蒜", "", "醬油、蒜"},
		[]string{"熱量", "700", "", "0"},
	)})

	res := Evaluate(wb, mustProfile(t, "elementary"))

	// only the Wednesday calorie reading of 0 is out of range
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "F5", res.Findings[0].Cell())
	assert.Equal(t, model.CategoryOutOfRange, res.Findings[0].Category)
	for _, f := range res.Findings {
		assert.NotEqual(t, 4, f.Col, "holiday column must not produce findings")
	}
}

func TestFirstDayExemption(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)"},
		[]string{"早點", "", ""},
		[]string{"主食", "白飯", "白飯"},
		[]string{"熱量", "500", "500"},
	)})

	res := Evaluate(wb, mustProfile(t, "kindergarten"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "E2", res.Findings[0].Cell())
	assert.Equal(t, model.CategoryMissingValue, res.Findings[0].Category)
}

func TestFirstDayExemptionFollowsDayOff(t *testing.T) {
	// Monday is a day off, so Tuesday is the first served day
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)", "4/30(三)"},
		[]string{"早點", "", "", ""},
		[]string{"主食", "", "白飯", "白飯"},
		[]string{"熱量", "", "500", "500"},
	)})

	res := Evaluate(wb, mustProfile(t, "kindergarten"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "F2", res.Findings[0].Cell())
	assert.Equal(t, "4/30(三)", res.Findings[0].Day)
}

func TestContractSpec(t *testing.T) {
	p := mustProfile(t, "elementary")
	tests := []struct {
		dish string
		want int
	}{
		{"白帶魚 100g", 1},
		{"白帶魚 150g", 0},
		{"白帶魚 １５０ｇ", 0},
		{"白帶魚100G", 1},
		{"白帶魚 100g、雞腿", 2},
		{"紅燒豆腐", 0},
	}
	for _, tt := range tests {
		wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
			[]string{"主食", "白飯"},
			[]string{"主菜", tt.dish},
		)})
		res := Evaluate(wb, p)
		require.Len(t, res.Findings, tt.want, "dish %q", tt.dish)
		for _, f := range res.Findings {
			assert.Equal(t, model.CategorySpecMismatch, f.Category)
		}
		if tt.dish == "白帶魚 100g" {
			assert.Contains(t, res.Findings[0].Reason, "150g")
		}
	}
}

func TestNutrition(t *testing.T) {
	p := mustProfile(t, "elementary")
	tests := []struct {
		label string
		value string
		want  []model.Category
	}{
		{"熱量", "700", nil},
		{"熱量(大卡)", "900大卡", []model.Category{model.CategoryOutOfRange}},
		{"熱量", "1,200", []model.Category{model.CategoryOutOfRange}},
		{"熱量", "約七百", []model.Category{model.CategoryOutOfRange}},
		{"蛋白質", "15g", []model.Category{model.CategoryPortionInsufficient}},
		{"蛋白質", "25g", nil},
		{"蛋白質", "", nil},
	}
	for _, tt := range tests {
		wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
			[]string{"主食", "白飯"},
			[]string{tt.label, tt.value},
		)})
		res := Evaluate(wb, p)
		if tt.want == nil {
			assert.Empty(t, res.Findings, "%s=%q", tt.label, tt.value)
			continue
		}
		assert.Equal(t, tt.want, categories(res.Findings), "%s=%q", tt.label, tt.value)
	}
}

func TestNutritionNoNumberMentionsZero(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)"},
		[]string{"熱量", "待補"},
	)})
	res := Evaluate(wb, mustProfile(t, "elementary"))
	require.Len(t, res.Findings, 1)
	assert.Contains(t, res.Findings[0].Reason, "以 0 計")
}

func TestForbiddenDay(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)", "4/30(三)"},
		[]string{"主食", "白飯", "白飯", "白飯"},
		[]string{"主菜", "麻辣豆腐", "麻辣豆腐", "麻辣豆腐"},
	)})

	res := Evaluate(wb, mustProfile(t, "elementary"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.CategoryForbiddenContent, res.Findings[0].Category)
	assert.Equal(t, "F3", res.Findings[0].Cell())
}

func TestForbiddenDayFallsBackToPosition(t *testing.T) {
	// no weekday in the labels: the third data column is Wednesday
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28", "4/29", "4/30"},
		[]string{"主菜", "剝皮辣椒雞", "剝皮辣椒雞", "剝皮辣椒雞"},
	)})

	res := Evaluate(wb, mustProfile(t, "elementary"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "F2", res.Findings[0].Cell())
}

func TestCustomRule(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)"},
		[]string{"鈉(mg)", "1200", "800"},
		[]string{"備註", "1200", "1200"},
	)})

	res := Evaluate(wb, mustProfile(t, "elementary"))

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, "D2", f.Cell())
	assert.Equal(t, "custom:sodium-cap", f.Rule)
	assert.Equal(t, model.CategoryOutOfRange, f.Category)
	assert.Equal(t, "鈉含量超過 1000 毫克", f.Reason)
}

func TestCustomRuleWeekdayFallsBackToPosition(t *testing.T) {
	p := loadProfile(t, "school", `
profiles:
  - name: school
    keywords: [學校]
    weekly: {label_column: C, data_columns: [D, E, F]}
    custom_rules:
      - {name: no-soup-wednesday, labels: [湯], expr: "present && weekday == 3", category: forbidden_content}
`)
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28", "4/29", "4/30"},
		[]string{"湯", "紫菜湯", "紫菜湯", "紫菜湯"},
	)})

	res := Evaluate(wb, p)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "F2", res.Findings[0].Cell())
	assert.Equal(t, "custom:no-soup-wednesday", res.Findings[0].Rule)
}

func TestDuplicateProtein(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"s", week([]string{"4/28(一)", "4/29(二)"},
		[]string{"A餐", "", ""},
		[]string{"主菜", "香煎雞腿", "鮭魚排"},
		[]string{"B餐", "", ""},
		[]string{"主菜", "三杯雞", "紅燒牛腩"},
	)})

	res := Evaluate(wb, mustProfile(t, "light_meal"))

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, model.CategoryDuplicateProtein, f.Category)
	assert.Equal(t, "D5", f.Cell())
	assert.Contains(t, f.Reason, "雞")
}

func TestDailyLayout(t *testing.T) {
	wb := buildWorkbook(t, sheetRows{"日菜單", [][]any{
		{"日期", "餐點", "", "全榖", "豆魚蛋肉", "蔬菜", "油脂", "熱量"},
		{"5/1(四)", "排骨飯", "", "2", "1.5", "0", "abc", "1200"},
		{"5/2(五)", "", "", "", "", "", "", ""},
		{"5/5(一)", "雞腿飯", "", "2", "1.5", "1", "1", "800"},
	}})

	res := Evaluate(wb, mustProfile(t, "food_court"))

	require.Len(t, res.Findings, 3)
	assert.Equal(t, []model.Category{
		model.CategoryMissingValue,
		model.CategoryMissingValue,
		model.CategoryOutOfRange,
	}, categories(res.Findings))
	assert.Equal(t, []string{"F2", "G2", "H2"}, []string{
		res.Findings[0].Cell(), res.Findings[1].Cell(), res.Findings[2].Cell(),
	})
	assert.Equal(t, "5/1(四)", res.Findings[0].Day)
	assert.Equal(t, "daily_nutrition", res.Findings[0].Rule)
}

func TestSheetsWithoutAnchorAreSkipped(t *testing.T) {
	wb := buildWorkbook(t,
		sheetRows{"說明", [][]any{{"供應商", "某某餐飲"}, {"電話", "02-1234"}}},
		sheetRows{"週菜單", week([]string{"4/28(一)"},
			[]string{"主食", ""},
			[]string{"主菜", "滷肉"},
		)},
	)

	res := Evaluate(wb, mustProfile(t, "elementary"))

	assert.Equal(t, []string{"說明"}, res.Skipped)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "週菜單", res.Findings[0].Sheet)
}

func TestFindingsFollowDiscoveryOrder(t *testing.T) {
	wb := buildWorkbook(t,
		sheetRows{"第一週", week([]string{"4/28(一)", "4/29(二)"},
			[]string{"主食", "", ""},
			[]string{"熱量", "", ""},
			[]string{"湯", "味噌湯", "紫菜湯"},
		)},
		sheetRows{"第二週", week([]string{"5/5(一)"},
			[]string{"主食", ""},
			[]string{"湯", "玉米濃湯"},
		)},
	)

	res := Evaluate(wb, mustProfile(t, "elementary"))

	var got []string
	for _, f := range res.Findings {
		got = append(got, f.Sheet+"!"+f.Cell())
	}
	assert.Equal(t, []string{"第一週!D2", "第一週!D3", "第一週!E2", "第一週!E3", "第二週!D2"}, got)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	sheet := sheetRows{"s", week([]string{"4/28(一)", "4/30(三)"},
		[]string{"主食", "", "白飯"},
		[]string{"主菜", "白帶魚 100g", "麻辣豆腐"},
		[]string{"熱量", "900", ""},
	)}
	p := mustProfile(t, "elementary")

	first := Evaluate(buildWorkbook(t, sheet), p)
	second := Evaluate(buildWorkbook(t, sheet), p)
	assert.Equal(t, first, second)
}

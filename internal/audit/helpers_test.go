package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"menu-audit/internal/grid"
	"menu-audit/internal/profile"
)

// sheetRows maps a sheet name to its rows, starting at A1.
type sheetRows struct {
	name string
	rows [][]any
}

func buildFile(t *testing.T, sheets ...sheetRows) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}
	return f
}

func buildWorkbook(t *testing.T, sheets ...sheetRows) *grid.Workbook {
	t.Helper()
	wb, err := grid.FromFile("menu.xlsx", buildFile(t, sheets...))
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func buildBytes(t *testing.T, sheets ...sheetRows) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := buildFile(t, sheets...).WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func registry(t *testing.T) *profile.Registry {
	t.Helper()
	reg, err := profile.Default()
	require.NoError(t, err)
	return reg
}

func mustProfile(t *testing.T, name string) *profile.RuleProfile {
	t.Helper()
	p, err := registry(t).Get(name)
	require.NoError(t, err)
	return p
}

// loadProfile parses a single-profile YAML document.
func loadProfile(t *testing.T, name, doc string) *profile.RuleProfile {
	t.Helper()
	reg, err := profile.Load(strings.NewReader(doc))
	require.NoError(t, err)
	p, err := reg.Get(name)
	require.NoError(t, err)
	return p
}

// week builds a weekly sheet: label column C, data columns from D. The first
// row is the date anchor.
func week(days []string, rows ...[]string) [][]any {
	header := []any{"", "", "日期"}
	for _, d := range days {
		header = append(header, d)
	}
	out := [][]any{header}
	for _, r := range rows {
		row := []any{"", ""}
		for _, v := range r {
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out
}

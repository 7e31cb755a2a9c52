// Package anchor finds the structural reference points of a menu sheet that
// the rules index relative to.
package anchor

import (
	"regexp"
	"strings"
	"time"

	"menu-audit/internal/normalize"
)

// Reader is the read side of a grid.
type Reader interface {
	Rows(sheet string) int
	Text(sheet string, row, col int) string
}

// FindDateRow returns the first row whose label cell contains the date marker
// ("日期" or "date"), ignoring case, width and inner spaces.
func FindDateRow(g Reader, sheet string, labelCol int) (int, bool) {
	for r := 0; r < g.Rows(sheet); r++ {
		label := normalize.Fold(normalize.Normalize(g.Text(sheet, r, labelCol), normalize.Structural))
		if label == "" {
			continue
		}
		if strings.Contains(label, "日期") || strings.Contains(label, "date") {
			return r, true
		}
	}
	return -1, false
}

// FindLabelRow returns the first row at or after from whose label contains text.
func FindLabelRow(g Reader, sheet string, labelCol int, text string, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	for r := from; r < g.Rows(sheet); r++ {
		label := normalize.Normalize(g.Text(sheet, r, labelCol), normalize.Structural)
		if label != "" && strings.Contains(label, text) {
			return r, true
		}
	}
	return -1, false
}

// IsDateLabel reports whether a label looks like a dated day entry such as
// "4/29(二)".
func IsDateLabel(label string) bool {
	return strings.Contains(label, "/") && (strings.Contains(label, "(") || strings.Contains(label, "（"))
}

// DateRows returns every row whose label is a dated day entry, top to bottom.
func DateRows(g Reader, sheet string, labelCol int) []int {
	var rows []int
	for r := 0; r < g.Rows(sheet); r++ {
		if IsDateLabel(normalize.Text(g.Text(sheet, r, labelCol))) {
			rows = append(rows, r)
		}
	}
	return rows
}

var (
	parenDay   = regexp.MustCompile(`[(（]\s*(?:週|周|星期)?\s*([一二三四五六日天])\s*[)）]`)
	prefixDay  = regexp.MustCompile(`(?:週|周|星期|禮拜)([一二三四五六日天])`)
	englishDay = regexp.MustCompile(`(?i)\b(sun|mon|tue|wed|thu|fri|sat)`)
)

var chineseDays = map[string]time.Weekday{
	"日": time.Sunday, "天": time.Sunday,
	"一": time.Monday, "二": time.Tuesday, "三": time.Wednesday,
	"四": time.Thursday, "五": time.Friday, "六": time.Saturday,
}

var englishDays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// Weekday parses the weekday named in a date/day label.
func Weekday(label string) (time.Weekday, bool) {
	if m := parenDay.FindStringSubmatch(label); m != nil {
		return chineseDays[m[1]], true
	}
	if m := prefixDay.FindStringSubmatch(label); m != nil {
		return chineseDays[m[1]], true
	}
	if m := englishDay.FindStringSubmatch(label); m != nil {
		return englishDays[strings.ToLower(m[1])], true
	}
	return 0, false
}

// DayOf resolves a weekly column's weekday from its label, falling back to
// its position among the data columns (0 = Monday).
func DayOf(label string, position int) time.Weekday {
	if d, ok := Weekday(label); ok {
		return d
	}
	return time.Weekday((int(time.Monday) + position) % 7)
}

// WeekdayName returns the short Chinese weekday name, e.g. "週三".
func WeekdayName(d time.Weekday) string {
	return [...]string{"週日", "週一", "週二", "週三", "週四", "週五", "週六"}[d]
}

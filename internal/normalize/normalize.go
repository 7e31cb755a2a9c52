// Package normalize canonicalizes raw spreadsheet values into "present" or
// "absent" text, stripping the many disguises a blank cell takes in real menus.
package normalize

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"
	"golang.org/x/text/width"
)

// Empty is the sentinel every blank alias collapses to.
const Empty = ""

// Policy selects which raw tokens count as blank.
//
// Structural fields (dish names, labels, meal cells) treat a literal zero as
// "not filled in". Reading fields (nutrient counts) keep zero as a real value
// unless the profile says otherwise for that field.
type Policy int

const (
	// Structural treats "", whitespace, nan, None, 0 and 0.0 as blank.
	Structural Policy = iota
	// Reading treats only "", whitespace, nan and None as blank.
	Reading
)

// String returns the policy name used in logs and profile files
func (p Policy) String() string {
	switch p {
	case Structural:
		return "structural"
	case Reading:
		return "reading"
	default:
		return "unknown"
	}
}

// Aliases returns the non-empty tokens the policy maps to Empty.
func (p Policy) Aliases() []string {
	aliases := []string{"nan", "NaN", "None"}
	if p == Structural {
		aliases = append(aliases, "0", "0.0")
	}
	return aliases
}

// PolicyFor maps a profile's zero_is_blank flag onto a Policy.
func PolicyFor(zeroIsBlank bool) Policy {
	if zeroIsBlank {
		return Structural
	}
	return Reading
}

// Text converts any scalar to trimmed text with embedded line breaks removed.
func Text(raw any) string {
	if raw == nil {
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		s = fmt.Sprint(raw)
	}
	s = strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
	return strings.TrimSpace(s)
}

// Normalize returns the canonical text of raw, or Empty when raw is a blank
// alias under p.
func Normalize(raw any, p Policy) string {
	s := Text(raw)
	if isBlank(s, p) {
		return Empty
	}
	return s
}

// IsEmpty reports whether raw normalizes to Empty under p.
func IsEmpty(raw any, p Policy) bool {
	return Normalize(raw, p) == Empty
}

func isBlank(s string, p Policy) bool {
	return s == "" || slices.Contains(p.Aliases(), s)
}

// Fold prepares text for case- and space-insensitive substring matching:
// full-width forms become half-width, letters are lower-cased and all
// whitespace is dropped.
func Fold(s string) string {
	s = width.Fold.String(s)
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ContainsFolded reports whether needle occurs in haystack after folding both.
func ContainsFolded(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}

var (
	numberPattern = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)
	plainNumber   = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`)
)

// FirstNumber extracts the first numeric token from s. The boolean is false
// when no token exists; the value is then 0.
func FirstNumber(s string) (float64, bool) {
	tok := numberPattern.FindString(width.Fold.String(s))
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsPlainNumber reports whether s is a bare non-negative decimal such as
// "12", "3.5" or "5.".
func IsPlainNumber(s string) bool {
	return plainNumber.MatchString(width.Fold.String(strings.TrimSpace(s)))
}

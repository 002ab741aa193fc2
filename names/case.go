package names

import (
	"strings"
	"unicode"
)

// Case identifies one of the accepted identifier spellings.
type Case int

const (
	CaseCamel Case = iota
	CaseKebab
	CaseSnake
)

// String returns the case name as used in diagnostics.
func (c Case) String() string {
	switch c {
	case CaseCamel:
		return "LOWER_CAMEL_CASE"
	case CaseKebab:
		return "KEBAB_CASE"
	case CaseSnake:
		return "SNAKE_CASE"
	default:
		return "Unknown"
	}
}

var (
	CamelCasePattern = newPattern("camel", `^[a-z]([A-Z]{1,2}[a-z0-9]|[a-z0-9])*[A-Z]?$`)
	KebabCasePattern = newPattern("kebab", `^[a-z]((-[a-z]){1,2}[a-z0-9]|[a-z0-9])*(-[a-z])?$`)
	SnakeCasePattern = newPattern("snake", `^[a-z]((_[a-z]){1,2}[a-z0-9]|[a-z0-9])*(_[a-z])?$`)
)

// Cases lists every case in precedence order.
var Cases = []Case{CaseCamel, CaseKebab, CaseSnake}

// Pattern returns the pattern for the case.
func (c Case) Pattern() *Pattern {
	switch c {
	case CaseKebab:
		return KebabCasePattern
	case CaseSnake:
		return SnakeCasePattern
	default:
		return CamelCasePattern
	}
}

// Matches reports whether s is spelled in case c.
func (c Case) Matches(s string) bool { return c.Pattern().Matches(s) }

// CaseOf returns the first case that s matches.
func CaseOf(s string) (Case, bool) {
	for _, c := range Cases {
		if c.Matches(s) {
			return c, true
		}
	}
	return 0, false
}

// ToCamel converts a kebab- or snake-case identifier to lower camel case.
// Camel-case input is returned unchanged.
//
// Normalization table:
//
//	fooBar  -> fooBar
//	foo-bar -> fooBar
//	foo_bar -> fooBar
//	foo_Bar -> (not an identifier in any case; rejected before normalization)
func ToCamel(s string) string {
	c, ok := CaseOf(s)
	if !ok || c == CaseCamel {
		return s
	}
	sep := "-"
	if c == CaseSnake {
		sep = "_"
	}
	parts := strings.Split(s, sep)
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

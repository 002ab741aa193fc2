// Package names provides validated wrappers for the identifiers that appear
// in a definition: type names, field and argument names, parameter ids,
// error namespaces, packages and error codes. Every wrapper is constructed
// through a function that rejects malformed input with a *FormatError.
package names

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/broady/conjure/internal/errs"
)

// Pattern is a named, anchored regular expression.
type Pattern struct {
	name string
	re   *regexp.Regexp
}

func newPattern(name, expr string) *Pattern {
	return &Pattern{name: name, re: regexp.MustCompile(expr)}
}

// String returns the regular expression source.
func (p *Pattern) String() string { return p.re.String() }

// Name returns the short name of the pattern.
func (p *Pattern) Name() string { return p.name }

type matchKey struct {
	pattern string
	value   string
}

// Identifiers repeat heavily across a definition (every field of every object
// re-checks the same handful of spellings), so results are memoized.
var matchCache, _ = lru.New[matchKey, bool](4096)

// Matches reports whether s matches the whole pattern.
func (p *Pattern) Matches(s string) bool {
	key := matchKey{pattern: p.name, value: s}
	if v, ok := matchCache.Get(key); ok {
		return v
	}
	v := p.re.MatchString(s)
	matchCache.Add(key, v)
	return v
}

// FormatError reports a value that does not match the pattern(s) for its kind.
type FormatError struct {
	// Kind names the identifier kind, e.g. "TypeName".
	Kind string

	// Value is the offending input.
	Value string

	// Patterns lists the regular expressions the value could have matched.
	Patterns []string

	// Reason overrides the default message when the failure is not a
	// pattern mismatch (reserved words, protocol headers).
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %q is invalid: %s", e.Kind, e.Value, e.Reason)
	}
	if len(e.Patterns) == 1 {
		return fmt.Sprintf("%s %q must match pattern %s", e.Kind, e.Value, e.Patterns[0])
	}
	return fmt.Sprintf("%s %q must match one of the following patterns: %s", e.Kind, e.Value, strings.Join(e.Patterns, ", "))
}

// ErrorCode implements the coded error contract of internal/errs.
func (e *FormatError) ErrorCode() errs.Code { return errs.CodeFormat }

// ErrorNames returns the offending value.
func (e *FormatError) ErrorNames() []string { return []string{e.Value} }

func formatError(kind, value string, patterns ...*Pattern) *FormatError {
	fe := &FormatError{Kind: kind, Value: value}
	for _, p := range patterns {
		fe.Patterns = append(fe.Patterns, p.String())
	}
	return fe
}

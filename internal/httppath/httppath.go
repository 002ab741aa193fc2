// Package httppath parses endpoint path templates such as /items/{id} and
// /files/{path:.+}.
package httppath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/broady/conjure/internal/errs"
)

// Rule is the validator name reported for malformed paths.
const Rule = "HttpPath"

const paramName = `[a-z][a-z0-9]*([A-Z0-9][a-z0-9]+)*`

// ParamNamePattern matches template variable and endpoint argument names.
var ParamNamePattern = regexp.MustCompile(`^` + paramName + `$`)

var (
	literalPattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	paramPattern      = regexp.MustCompile(`^\{` + paramName + `\}$`)
	regexParamPattern = regexp.MustCompile(`^\{` + paramName + `(:\.\+|:\.\*)\}$`)
)

// Segment is one '/'-separated component of a path.
type Segment struct {
	// Literal is set for literal segments.
	Literal string

	// Param is the template variable name for parameter segments.
	Param string

	// Regex is ".+" or ".*" for regex parameters, empty otherwise.
	Regex string
}

// IsParam reports whether the segment is a template variable.
func (s Segment) IsParam() bool { return s.Param != "" }

func (s Segment) String() string {
	switch {
	case s.Regex != "":
		return "{" + s.Param + ":" + s.Regex + "}"
	case s.Param != "":
		return "{" + s.Param + "}"
	default:
		return s.Literal
	}
}

// Path is a parsed path template.
type Path struct {
	raw      string
	segments []Segment
}

// Parse validates s and splits it into segments. A path must start with '/',
// must not end with '/' unless it is exactly "/", may not repeat a template
// variable, and may only use the {name:.*} form in its final segment.
func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return Path{}, errs.Validation(Rule, "Conjure paths must be absolute, i.e., start with '/': %s", s).WithNames(s)
	}
	if s == "/" {
		return Path{raw: s}, nil
	}
	if strings.HasSuffix(s, "/") {
		return Path{}, errs.Validation(Rule, "Conjure paths must not end with a '/': %s", s).WithNames(s)
	}

	parts := strings.Split(s[1:], "/")
	p := Path{raw: s, segments: make([]Segment, 0, len(parts))}
	seen := make(map[string]bool)
	for i, part := range parts {
		seg, err := parseSegment(part, s)
		if err != nil {
			return Path{}, err
		}
		if seg.IsParam() {
			if seen[seg.Param] {
				return Path{}, errs.Validation(Rule, "Path parameter %s appears more than once in path %s", seg.Param, s).WithNames(seg.Param)
			}
			seen[seg.Param] = true
			if seg.Regex == ".*" && i != len(parts)-1 {
				return Path{}, errs.Validation(Rule,
					"Path parameter %s in path %s specifies regular expression .*, but this regular expression is only permitted if the path parameter is the last segment",
					seg, s).WithNames(seg.Param)
			}
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

func parseSegment(part, path string) (Segment, error) {
	switch {
	case literalPattern.MatchString(part):
		return Segment{Literal: part}, nil
	case paramPattern.MatchString(part):
		return Segment{Param: part[1 : len(part)-1]}, nil
	case regexParamPattern.MatchString(part):
		name, regex, _ := strings.Cut(part[1:len(part)-1], ":")
		return Segment{Param: name, Regex: regex}, nil
	}
	return Segment{}, errs.Validation(Rule,
		"Segment %s of path %s did not match required segment patterns %s or parameter name patterns %s or %s",
		part, path, literalPattern, paramPattern, regexParamPattern).WithNames(part)
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path as written.
func (p Path) String() string { return p.raw }

// Segments returns the parsed segments. The root path has none.
func (p Path) Segments() []Segment { return p.segments }

// Vars returns the template variables in order of appearance.
func (p Path) Vars() []string {
	var vars []string
	for _, s := range p.segments {
		if s.IsParam() {
			vars = append(vars, s.Param)
		}
	}
	return vars
}

// Normalized replaces every template variable with {arg}, so that paths
// differing only in parameter names or regexes compare equal.
func (p Path) Normalized() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		if s.IsParam() {
			b.WriteString("{arg}")
		} else {
			b.WriteString(s.Literal)
		}
	}
	return b.String()
}

// Join resolves an endpoint path against a service base path and parses
// the result.
func Join(base, path string) (Path, error) {
	if _, err := Parse(base); err != nil {
		return Path{}, fmt.Errorf("base path: %w", err)
	}
	switch {
	case base == "/":
		return Parse(path)
	case path == "/":
		return Parse(base)
	case !strings.HasPrefix(path, "/"):
		// Let Parse report the relative path.
		return Parse(path)
	}
	return Parse(base + path)
}

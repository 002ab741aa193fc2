// Package ir defines the validated definition graph: the closed family of
// type expressions, the named type definitions that reference them, and the
// services and endpoints exposed to code generators.
//
// Values in this package are built once by the compiler and must be treated
// as read-only afterwards.
package ir

import (
	"fmt"
	"strings"

	"github.com/broady/conjure/names"
)

// SupportedVersion is the only definition version this compiler emits.
const SupportedVersion = 1

// TypeName is a named type qualified by its package.
type TypeName struct {
	Name    names.TypeName `json:"name"`
	Package names.Package  `json:"package"`
}

// NewTypeName validates name and pkg. Primitive names take no package.
func NewTypeName(name, pkg string) (TypeName, error) {
	n, err := names.NewTypeName(name)
	if err != nil {
		return TypeName{}, err
	}
	if n.IsPrimitive() && pkg == "" {
		return TypeName{Name: n}, nil
	}
	p, err := names.NewPackage(pkg)
	if err != nil {
		return TypeName{}, err
	}
	return TypeName{Name: n, Package: p}, nil
}

// MustTypeName is like NewTypeName but panics on invalid input.
func MustTypeName(name, pkg string) TypeName {
	tn, err := NewTypeName(name, pkg)
	if err != nil {
		panic(err)
	}
	return tn
}

// IsZero returns true if the name is empty.
func (n TypeName) IsZero() bool {
	return n.Name.IsZero() && n.Package.IsZero()
}

// String returns the package-qualified name.
func (n TypeName) String() string {
	if n.Package.IsZero() {
		return n.Name.String()
	}
	return n.Package.String() + "." + n.Name.String()
}

// Documentation holds the docs attached to a definition.
type Documentation struct {
	// Summary is the first paragraph of Body.
	Summary string `json:"summary,omitempty"`

	// Body is the complete documentation text.
	Body string `json:"body,omitempty"`

	// Deprecated is non-nil if the element is marked deprecated.
	// The string value is the deprecation message (may be empty).
	Deprecated *string `json:"deprecated,omitempty"`
}

// NewDocumentation splits body into summary and body.
func NewDocumentation(body string, deprecated *string) Documentation {
	body = strings.TrimSpace(body)
	summary, _, _ := strings.Cut(body, "\n\n")
	return Documentation{Summary: summary, Body: body, Deprecated: deprecated}
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Warning represents a non-fatal issue encountered during compilation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// TypeName is the definition that triggered the warning, if applicable.
	TypeName string `json:"typeName,omitempty"`
}

// LogSafety classifies whether a value may appear in logs.
type LogSafety int

const (
	SafetySafe LogSafety = iota
	SafetyUnsafe
	SafetyDoNotLog
)

// String returns the source spelling of the safety level.
func (s LogSafety) String() string {
	switch s {
	case SafetySafe:
		return "safe"
	case SafetyUnsafe:
		return "unsafe"
	case SafetyDoNotLog:
		return "do-not-log"
	default:
		return "unknown"
	}
}

// ParseLogSafety parses a source safety value, ignoring case.
func ParseLogSafety(s string) (LogSafety, error) {
	switch strings.ToLower(s) {
	case "safe":
		return SafetySafe, nil
	case "unsafe":
		return SafetyUnsafe, nil
	case "do-not-log", "do_not_log":
		return SafetyDoNotLog, nil
	}
	return 0, fmt.Errorf("unknown log safety %q: must be safe, unsafe, or do-not-log", s)
}

// MarshalText renders the safety as its source spelling.
func (s LogSafety) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

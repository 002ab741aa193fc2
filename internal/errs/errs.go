// Package errs defines the structured error returned by every stage of the
// compiler. It has no dependencies inside the module so that name types,
// the resolver and the validators can all report through it.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine-readable tag identifying the kind of failure.
type Code string

const (
	CodeParse               Code = "parse"
	CodeFormat              Code = "format"
	CodeUnresolvedReference Code = "unresolved_reference"
	CodeUnknownNamespace    Code = "unknown_namespace"
	CodeMissingPackage      Code = "missing_package"
	CodeDuplicateName       Code = "duplicate_name"
	CodeUnsupportedVersion  Code = "unsupported_version"
	CodeRecursiveType       Code = "recursive_type"
	CodeValidation          Code = "validation"
)

// Error is the error envelope surfaced at the package boundary.
type Error struct {
	Code Code `json:"code"`

	// Rule names the validator that failed. Only set for CodeValidation.
	Rule string `json:"rule,omitempty"`

	// Names lists the offending identifiers.
	Names []string `json:"names,omitempty"`

	Message string `json:"message"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Code, e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode reports the kind tag. It lets other error types carry a code
// without being an *Error.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates an error with the given code and message.
func New(code Code, message string, names ...string) *Error {
	return &Error{Code: code, Message: message, Names: names}
}

// Errorf creates an error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a CodeValidation error for the named rule.
func Validation(rule string, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// WithNames returns a copy of e with the offending identifiers attached.
func (e *Error) WithNames(names ...string) *Error {
	cp := *e
	cp.Names = append(append([]string(nil), e.Names...), names...)
	return &cp
}

// Wrap attaches a code to an arbitrary error. Errors that already carry a
// code are returned unchanged.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := CodeOf(err); ok {
		return err
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

type coder interface {
	ErrorCode() Code
}

// CodeOf returns the code of the first error in err's chain that has one.
func CodeOf(err error) (Code, bool) {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode(), true
	}
	return "", false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// RuleOf returns the validator rule name carried by err, if any.
func RuleOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Rule
	}
	return ""
}

// FormatList renders names as "[a, b]".
func FormatList(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

type namer interface {
	ErrorNames() []string
}

// From returns err as an *Error. An *Error in the chain is returned as is;
// any other error keeps its code (CodeParse if it has none) and its own
// message, so that context added by wrapping is preserved.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	code, ok := CodeOf(err)
	if !ok {
		code = CodeParse
	}
	out := &Error{Code: code, Message: err.Error(), Err: err}
	var n namer
	if errors.As(err, &n) {
		out.Names = n.ErrorNames()
	}
	return out
}

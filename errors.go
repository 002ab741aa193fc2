package conjure

import "github.com/broady/conjure/internal/errs"

// Error is the structured error returned by every Compiler method.
type Error = errs.Error

// ErrorCode is the stable kind tag of an Error.
type ErrorCode = errs.Code

const (
	CodeParse               = errs.CodeParse
	CodeFormat              = errs.CodeFormat
	CodeUnresolvedReference = errs.CodeUnresolvedReference
	CodeUnknownNamespace    = errs.CodeUnknownNamespace
	CodeMissingPackage      = errs.CodeMissingPackage
	CodeDuplicateName       = errs.CodeDuplicateName
	CodeUnsupportedVersion  = errs.CodeUnsupportedVersion
	CodeRecursiveType       = errs.CodeRecursiveType
	CodeValidation          = errs.CodeValidation
)

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool { return errs.HasCode(err, code) }

// RuleOf returns the name of the validator rule that rejected a definition,
// or "" if err is not a validation failure.
func RuleOf(err error) string { return errs.RuleOf(err) }

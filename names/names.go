package names

import (
	"slices"
	"strings"
)

var (
	TypeNamePattern       = newPattern("type", `^[A-Z][a-z0-9]+([A-Z][a-z0-9]+)*$`)
	PackagePattern        = newPattern("package", `^([a-z][a-z0-9]+(\.[a-z][a-z0-9]*)*)?$`)
	ErrorNamespacePattern = newPattern("namespace", `^([A-Z][a-z0-9]+)+$`)
	HeaderPattern         = newPattern("header", `^[A-Z][a-zA-Z0-9]*(-[A-Z][a-zA-Z0-9]*)*$`)
	EnumValuePattern      = newPattern("enum", `^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
)

// Primitives lists the built-in type names, sorted.
var Primitives = []string{
	"any", "bearertoken", "binary", "boolean", "datetime", "double",
	"integer", "rid", "safelong", "string", "uuid",
}

// IsPrimitive reports whether s is exactly a built-in type name.
func IsPrimitive(s string) bool {
	_, ok := slices.BinarySearch(Primitives, s)
	return ok
}

// IsReservedPrimitive reports whether s spells a built-in type name in the
// wrong case, such as "String".
func IsReservedPrimitive(s string) bool {
	return !IsPrimitive(s) && IsPrimitive(strings.ToLower(s))
}

// ProtocolHeaders may not be declared as header parameters.
var ProtocolHeaders = []string{"Accept", "Content-Type", "Host"}

// TypeName is an UpperCamelCase type name or a primitive name.
type TypeName struct{ s string }

// NewTypeName validates s as a type name.
func NewTypeName(s string) (TypeName, error) {
	if IsReservedPrimitive(s) {
		fe := formatError("TypeName", s, TypeNamePattern)
		fe.Reason = "Invalid use of a built-in identifier (please check case)"
		return TypeName{}, fe
	}
	if IsPrimitive(s) || TypeNamePattern.Matches(s) {
		return TypeName{s}, nil
	}
	return TypeName{}, formatError("TypeName", s, TypeNamePattern)
}

// MustTypeName is like NewTypeName but panics on invalid input.
func MustTypeName(s string) TypeName { return must(NewTypeName(s)) }

func (n TypeName) String() string    { return n.s }
func (n TypeName) IsZero() bool      { return n.s == "" }
func (n TypeName) IsPrimitive() bool { return IsPrimitive(n.s) }

// Package is a dot separated lowercase package name.
type Package struct{ s string }

// NewPackage validates s as a package name.
func NewPackage(s string) (Package, error) {
	if s == "" || !PackagePattern.Matches(s) {
		return Package{}, formatError("Package", s, PackagePattern)
	}
	return Package{s}, nil
}

// MustPackage is like NewPackage but panics on invalid input.
func MustPackage(s string) Package { return must(NewPackage(s)) }

func (p Package) String() string { return p.s }
func (p Package) IsZero() bool   { return p.s == "" }

// FieldName is an object field, union member or error argument name. Any of
// the three cases is accepted; camel case is canonical.
type FieldName struct{ s string }

// NewFieldName validates s as a field name.
func NewFieldName(s string) (FieldName, error) {
	if _, ok := CaseOf(s); !ok {
		return FieldName{}, formatError("FieldName", s, CamelCasePattern, KebabCasePattern, SnakeCasePattern)
	}
	return FieldName{s}, nil
}

// MustFieldName is like NewFieldName but panics on invalid input.
func MustFieldName(s string) FieldName { return must(NewFieldName(s)) }

func (f FieldName) String() string { return f.s }

// Case returns the spelling of the name.
func (f FieldName) Case() Case {
	c, _ := CaseOf(f.s)
	return c
}

// IsCanonical reports whether the name is in lower camel case.
func (f FieldName) IsCanonical() bool { return f.Case() == CaseCamel }

// Normalized returns the name in lower camel case.
func (f FieldName) Normalized() string { return ToCamel(f.s) }

// Equal compares names after normalization.
func (f FieldName) Equal(o FieldName) bool { return f.Normalized() == o.Normalized() }

// ArgumentName is an endpoint argument name; only camel case is accepted.
type ArgumentName struct{ s string }

// NewArgumentName validates s as an argument name.
func NewArgumentName(s string) (ArgumentName, error) {
	if !CamelCasePattern.Matches(s) {
		return ArgumentName{}, formatError("ArgumentName", s, CamelCasePattern)
	}
	return ArgumentName{s}, nil
}

// MustArgumentName is like NewArgumentName but panics on invalid input.
func MustArgumentName(s string) ArgumentName { return must(NewArgumentName(s)) }

func (a ArgumentName) String() string { return a.s }

// EndpointName is a camel case endpoint name.
type EndpointName struct{ s string }

// NewEndpointName validates s as an endpoint name.
func NewEndpointName(s string) (EndpointName, error) {
	if !CamelCasePattern.Matches(s) {
		return EndpointName{}, formatError("EndpointName", s, CamelCasePattern)
	}
	return EndpointName{s}, nil
}

// MustEndpointName is like NewEndpointName but panics on invalid input.
func MustEndpointName(s string) EndpointName { return must(NewEndpointName(s)) }

func (e EndpointName) String() string { return e.s }

// ParamKind is the wire location of an endpoint argument.
type ParamKind int

const (
	ParamBody ParamKind = iota
	ParamPath
	ParamQuery
	ParamHeader
)

// String returns the lowercase kind name used in source files.
func (k ParamKind) String() string {
	switch k {
	case ParamBody:
		return "body"
	case ParamPath:
		return "path"
	case ParamQuery:
		return "query"
	case ParamHeader:
		return "header"
	default:
		return "unknown"
	}
}

// ParameterID is the wire identifier of a query or header parameter.
type ParameterID struct {
	s    string
	kind ParamKind
}

// NewParameterID validates s against the pattern for kind. Header ids use
// Upper-Kebab-Case and exclude protocol headers; every other kind accepts the
// three identifier cases.
func NewParameterID(kind ParamKind, s string) (ParameterID, error) {
	if kind == ParamHeader {
		if !HeaderPattern.Matches(s) {
			return ParameterID{}, formatError("Header parameter id", s, HeaderPattern)
		}
		if slices.Contains(ProtocolHeaders, s) {
			fe := formatError("Header parameter id", s, HeaderPattern)
			fe.Reason = "should not be one of the protocol headers [" + strings.Join(ProtocolHeaders, ", ") + "]"
			return ParameterID{}, fe
		}
		return ParameterID{s: s, kind: kind}, nil
	}
	if _, ok := CaseOf(s); !ok {
		return ParameterID{}, formatError("Query param id", s, CamelCasePattern, KebabCasePattern, SnakeCasePattern)
	}
	return ParameterID{s: s, kind: kind}, nil
}

// MustParameterID is like NewParameterID but panics on invalid input.
func MustParameterID(kind ParamKind, s string) ParameterID { return must(NewParameterID(kind, s)) }

func (p ParameterID) String() string  { return p.s }
func (p ParameterID) Kind() ParamKind { return p.kind }

// IsCanonical reports whether a non-header id is camel case. Header ids are
// always canonical.
func (p ParameterID) IsCanonical() bool {
	return p.kind == ParamHeader || CamelCasePattern.Matches(p.s)
}

// ErrorNamespace is the UpperCamelCase namespace of an error definition.
type ErrorNamespace struct{ s string }

// NewErrorNamespace validates s as an error namespace.
func NewErrorNamespace(s string) (ErrorNamespace, error) {
	if !ErrorNamespacePattern.Matches(s) {
		return ErrorNamespace{}, formatError("ErrorNamespace", s, ErrorNamespacePattern)
	}
	return ErrorNamespace{s}, nil
}

// MustErrorNamespace is like NewErrorNamespace but panics on invalid input.
func MustErrorNamespace(s string) ErrorNamespace { return must(NewErrorNamespace(s)) }

func (n ErrorNamespace) String() string { return n.s }

// ErrorCode is the category of an error definition.
type ErrorCode string

const (
	ErrorPermissionDenied      ErrorCode = "PERMISSION_DENIED"
	ErrorInvalidArgument       ErrorCode = "INVALID_ARGUMENT"
	ErrorNotFound              ErrorCode = "NOT_FOUND"
	ErrorConflict              ErrorCode = "CONFLICT"
	ErrorRequestEntityTooLarge ErrorCode = "REQUEST_ENTITY_TOO_LARGE"
	ErrorFailedPrecondition    ErrorCode = "FAILED_PRECONDITION"
	ErrorInternal              ErrorCode = "INTERNAL"
	ErrorTimeout               ErrorCode = "TIMEOUT"
	ErrorCustomClient          ErrorCode = "CUSTOM_CLIENT"
	ErrorCustomServer          ErrorCode = "CUSTOM_SERVER"
)

// ErrorCodes lists every accepted error code.
var ErrorCodes = []ErrorCode{
	ErrorPermissionDenied, ErrorInvalidArgument, ErrorNotFound, ErrorConflict,
	ErrorRequestEntityTooLarge, ErrorFailedPrecondition, ErrorInternal,
	ErrorTimeout, ErrorCustomClient, ErrorCustomServer,
}

// NewErrorCode validates s as an error code.
func NewErrorCode(s string) (ErrorCode, error) {
	if slices.Contains(ErrorCodes, ErrorCode(s)) {
		return ErrorCode(s), nil
	}
	codes := make([]string, len(ErrorCodes))
	for i, c := range ErrorCodes {
		codes[i] = string(c)
	}
	return "", &FormatError{Kind: "ErrorCode", Value: s, Reason: "must be one of " + strings.Join(codes, ", ")}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// MarshalText implementations let the wrappers serialize as plain strings.

func (n TypeName) MarshalText() ([]byte, error)       { return []byte(n.s), nil }
func (p Package) MarshalText() ([]byte, error)        { return []byte(p.s), nil }
func (f FieldName) MarshalText() ([]byte, error)      { return []byte(f.s), nil }
func (a ArgumentName) MarshalText() ([]byte, error)   { return []byte(a.s), nil }
func (e EndpointName) MarshalText() ([]byte, error)   { return []byte(e.s), nil }
func (p ParameterID) MarshalText() ([]byte, error)    { return []byte(p.s), nil }
func (n ErrorNamespace) MarshalText() ([]byte, error) { return []byte(n.s), nil }
func (k ParamKind) MarshalText() ([]byte, error)      { return []byte(k.String()), nil }

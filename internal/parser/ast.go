// Package parser decodes definition source files into a raw syntax tree.
// Names and type expressions are kept as strings; the resolver turns them
// into the validated graph.
package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is one parsed source file.
type File struct {
	// Path is the path the file was loaded from, used in diagnostics and to
	// locate conjure-imports.
	Path string `yaml:"-"`

	Types    TypesDef               `yaml:"types"`
	Services OrderedMap[ServiceDef] `yaml:"services"`

	// Imported maps each conjure-imports namespace to its parsed file. It
	// is populated by Loader.
	Imported map[string]*File `yaml:"-"`
}

// TypesDef is the types section of a file.
type TypesDef struct {
	// ConjureImports maps a namespace to the relative path of another file.
	ConjureImports OrderedMap[string] `yaml:"conjure-imports"`

	// Imports declares types defined outside the definition.
	Imports OrderedMap[ExternalImportDef] `yaml:"imports"`

	Definitions DefinitionsDef `yaml:"definitions"`
}

// ExternalImportDef declares an external type.
type ExternalImportDef struct {
	// BaseType is the fallback type expression. Defaults to any.
	BaseType string      `yaml:"base-type"`
	External ExternalDef `yaml:"external"`
	Safety   string      `yaml:"safety" validate:"omitempty,oneof=safe unsafe do-not-log SAFE UNSAFE DO_NOT_LOG"`
}

// ExternalDef holds the fully qualified external names.
type ExternalDef struct {
	Java string `yaml:"java" validate:"required"`
}

// DefinitionsDef holds the named definitions of a file.
type DefinitionsDef struct {
	DefaultPackage string               `yaml:"default-package"`
	Objects        OrderedMap[TypeDef]  `yaml:"objects"`
	Errors         OrderedMap[ErrorDef] `yaml:"errors"`
}

// TypeDefKind identifies which variant a TypeDef declares.
type TypeDefKind int

const (
	TypeDefObject TypeDefKind = iota
	TypeDefEnum
	TypeDefUnion
	TypeDefAlias
)

// TypeDef is an object, enum, union or alias. Exactly one of Fields,
// Values, Union and Alias is set.
type TypeDef struct {
	Package string `yaml:"package"`
	Docs    string `yaml:"docs"`

	Fields *OrderedMap[FieldDef] `yaml:"fields"`
	Values []EnumValueDef        `yaml:"values"`
	Union  *OrderedMap[FieldDef] `yaml:"union"`
	Alias  string                `yaml:"alias"`

	// Safety applies to aliases only.
	Safety string `yaml:"safety" validate:"omitempty,oneof=safe unsafe do-not-log SAFE UNSAFE DO_NOT_LOG"`
}

// Kind reports which variant t declares.
func (t *TypeDef) Kind() (TypeDefKind, error) {
	var kinds []TypeDefKind
	if t.Fields != nil {
		kinds = append(kinds, TypeDefObject)
	}
	if t.Values != nil {
		kinds = append(kinds, TypeDefEnum)
	}
	if t.Union != nil {
		kinds = append(kinds, TypeDefUnion)
	}
	if t.Alias != "" {
		kinds = append(kinds, TypeDefAlias)
	}
	if len(kinds) != 1 {
		return 0, fmt.Errorf("must declare exactly one of fields, values, union, or alias")
	}
	if t.Safety != "" && kinds[0] != TypeDefAlias {
		return 0, fmt.Errorf("only aliases may declare safety")
	}
	return kinds[0], nil
}

// FieldDef is a field, union member or error argument. In source it is
// either a bare type expression or a mapping.
type FieldDef struct {
	Type       string  `yaml:"type" validate:"required"`
	Docs       string  `yaml:"docs"`
	Deprecated *string `yaml:"deprecated"`
	Safety     string  `yaml:"safety" validate:"omitempty,oneof=safe unsafe do-not-log SAFE UNSAFE DO_NOT_LOG"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		f.Type = n.Value
		return nil
	}
	type plain FieldDef
	return n.Decode((*plain)(f))
}

// EnumValueDef is one enum value: a bare string or a mapping.
type EnumValueDef struct {
	Value      string  `yaml:"value" validate:"required"`
	Docs       string  `yaml:"docs"`
	Deprecated *string `yaml:"deprecated"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *EnumValueDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v.Value = n.Value
		return nil
	}
	type plain EnumValueDef
	return n.Decode((*plain)(v))
}

// ErrorDef is an error definition.
type ErrorDef struct {
	Package    string               `yaml:"package"`
	Docs       string               `yaml:"docs"`
	Namespace  string               `yaml:"namespace" validate:"required"`
	Code       string               `yaml:"code" validate:"required"`
	SafeArgs   OrderedMap[FieldDef] `yaml:"safe-args"`
	UnsafeArgs OrderedMap[FieldDef] `yaml:"unsafe-args"`
}

// ServiceDef is a service definition.
type ServiceDef struct {
	Name        string                  `yaml:"name"`
	Package     string                  `yaml:"package"`
	Docs        string                  `yaml:"docs"`
	BasePath    string                  `yaml:"base-path"`
	DefaultAuth string                  `yaml:"default-auth"`
	Endpoints   OrderedMap[EndpointDef] `yaml:"endpoints"`
}

// EndpointDef is one endpoint of a service.
type EndpointDef struct {
	// HTTP is "METHOD /path".
	HTTP         string             `yaml:"http" validate:"required"`
	Auth         *string            `yaml:"auth"`
	Args         OrderedMap[ArgDef] `yaml:"args"`
	Returns      string             `yaml:"returns"`
	ReturnSafety *string            `yaml:"returns-safety" validate:"omitempty,oneof=safe unsafe do-not-log SAFE UNSAFE DO_NOT_LOG"`
	Docs         string             `yaml:"docs"`
	Deprecated   *string            `yaml:"deprecated"`
	Markers      []string           `yaml:"markers"`
	Errors       []string           `yaml:"errors"`
	Tags         []string           `yaml:"tags"`
}

// ArgDef is an endpoint argument: a bare type expression or a mapping.
type ArgDef struct {
	Type      string   `yaml:"type" validate:"required"`
	Docs      string   `yaml:"docs"`
	ParamID   string   `yaml:"param-id"`
	ParamType string   `yaml:"param-type" validate:"omitempty,oneof=auto path query header body"`
	Markers   []string `yaml:"markers"`
	Tags      []string `yaml:"tags"`
	Safety    string   `yaml:"safety" validate:"omitempty,oneof=safe unsafe do-not-log SAFE UNSAFE DO_NOT_LOG"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArgDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		a.Type = n.Value
		return nil
	}
	type plain ArgDef
	return n.Decode((*plain)(a))
}

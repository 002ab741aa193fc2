package ir

import "github.com/broady/conjure/names"

// DefinitionKind identifies the variant of a named type definition.
type DefinitionKind int

const (
	DefinitionObject DefinitionKind = iota
	DefinitionEnum
	DefinitionUnion
	DefinitionAlias
)

// String returns the string representation of the definition kind.
func (k DefinitionKind) String() string {
	switch k {
	case DefinitionObject:
		return "Object"
	case DefinitionEnum:
		return "Enum"
	case DefinitionUnion:
		return "Union"
	case DefinitionAlias:
		return "Alias"
	default:
		return "Unknown"
	}
}

// TypeDefinition is a named type. The set of implementations is closed.
type TypeDefinition interface {
	// DefinitionKind returns the variant for type switching.
	DefinitionKind() DefinitionKind

	// TypeName returns the qualified name of the definition.
	TypeName() TypeName

	// Doc returns the attached documentation.
	Doc() Documentation

	sealed()
}

// FieldDefinition is a named member of an object, union or error.
type FieldDefinition struct {
	Name   names.FieldName `json:"fieldName"`
	Type   Type            `json:"type"`
	Docs   Documentation   `json:"docs"`
	Safety *LogSafety      `json:"safety,omitempty"`
}

// ObjectDefinition is a record with ordered fields.
type ObjectDefinition struct {
	Name   TypeName          `json:"typeName"`
	Fields []FieldDefinition `json:"fields"`
	Docs   Documentation     `json:"docs"`
}

func (d *ObjectDefinition) DefinitionKind() DefinitionKind { return DefinitionObject }
func (d *ObjectDefinition) TypeName() TypeName             { return d.Name }
func (d *ObjectDefinition) Doc() Documentation             { return d.Docs }
func (d *ObjectDefinition) sealed()                        {}

// EnumValueDefinition is one member of an enum.
type EnumValueDefinition struct {
	Value string        `json:"value"`
	Docs  Documentation `json:"docs"`
}

// EnumDefinition is a closed set of string values.
type EnumDefinition struct {
	Name   TypeName              `json:"typeName"`
	Values []EnumValueDefinition `json:"values"`
	Docs   Documentation         `json:"docs"`
}

func (d *EnumDefinition) DefinitionKind() DefinitionKind { return DefinitionEnum }
func (d *EnumDefinition) TypeName() TypeName             { return d.Name }
func (d *EnumDefinition) Doc() Documentation             { return d.Docs }
func (d *EnumDefinition) sealed()                        {}

// UnionDefinition is exactly one of several named members.
type UnionDefinition struct {
	Name    TypeName          `json:"typeName"`
	Members []FieldDefinition `json:"union"`
	Docs    Documentation     `json:"docs"`
}

func (d *UnionDefinition) DefinitionKind() DefinitionKind { return DefinitionUnion }
func (d *UnionDefinition) TypeName() TypeName             { return d.Name }
func (d *UnionDefinition) Doc() Documentation             { return d.Docs }
func (d *UnionDefinition) sealed()                        {}

// AliasDefinition is a named wrapper around exactly one other type.
type AliasDefinition struct {
	Name   TypeName      `json:"typeName"`
	Alias  Type          `json:"alias"`
	Safety *LogSafety    `json:"safety,omitempty"`
	Docs   Documentation `json:"docs"`
}

func (d *AliasDefinition) DefinitionKind() DefinitionKind { return DefinitionAlias }
func (d *AliasDefinition) TypeName() TypeName             { return d.Name }
func (d *AliasDefinition) Doc() Documentation             { return d.Docs }
func (d *AliasDefinition) sealed()                        {}

// ErrorDefinition is a structured service error.
type ErrorDefinition struct {
	Name       TypeName             `json:"errorName"`
	Namespace  names.ErrorNamespace `json:"namespace"`
	Code       names.ErrorCode      `json:"code"`
	SafeArgs   []FieldDefinition    `json:"safeArgs"`
	UnsafeArgs []FieldDefinition    `json:"unsafeArgs"`
	Docs       Documentation        `json:"docs"`
}

// Args returns safe args followed by unsafe args.
func (d *ErrorDefinition) Args() []FieldDefinition {
	args := make([]FieldDefinition, 0, len(d.SafeArgs)+len(d.UnsafeArgs))
	args = append(args, d.SafeArgs...)
	return append(args, d.UnsafeArgs...)
}

// TypeDefinitionVisitor dispatches on the variant of a TypeDefinition.
type TypeDefinitionVisitor[T any] interface {
	VisitObject(*ObjectDefinition) (T, error)
	VisitEnum(*EnumDefinition) (T, error)
	VisitUnion(*UnionDefinition) (T, error)
	VisitAlias(*AliasDefinition) (T, error)
}

// AcceptDefinition dispatches d to the matching method of v.
func AcceptDefinition[T any](d TypeDefinition, v TypeDefinitionVisitor[T]) (T, error) {
	switch d := d.(type) {
	case *ObjectDefinition:
		return v.VisitObject(d)
	case *EnumDefinition:
		return v.VisitEnum(d)
	case *UnionDefinition:
		return v.VisitUnion(d)
	case *AliasDefinition:
		return v.VisitAlias(d)
	}
	var zero T
	return zero, ErrUnsupportedType
}

// FieldsOf returns the fields of an object or the members of a union.
func FieldsOf(d TypeDefinition) []FieldDefinition {
	switch d := d.(type) {
	case *ObjectDefinition:
		return d.Fields
	case *UnionDefinition:
		return d.Members
	}
	return nil
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

func TestTypeDefinitionRules(t *testing.T) {
	tests := []struct {
		name string
		def  ir.TypeDefinition
		rule string
		msg  string
	}{
		{
			name: "empty type name",
			def:  &ir.ObjectDefinition{},
			rule: "TypeName",
			msg:  "TypeNames must be a primitive or match pattern",
		},
		{
			name: "missing package",
			def:  &ir.ObjectDefinition{Name: ir.TypeName{Name: names.MustTypeName("Foo")}},
			rule: "Package",
			msg:  `Conjure package names must match pattern`,
		},
		{
			name: "field names collide after normalization",
			def:  object("Foo", field("fooBar", ir.String()), field("foo-bar", ir.String())),
			rule: "UniqueFieldNames",
			msg:  "Foo must not contain duplicate field names (modulo case normalization): fooBar vs foo-bar",
		},
		{
			name: "complex map key",
			def:  object("Foo", field("m", ir.Map(ir.List(ir.String()), ir.String()))),
			rule: "NoComplexMapKeys",
			msg:  "Complex type 'list<string>' not allowed in map key",
		},
		{
			name: "binary map key in alias",
			def:  alias("Blobs", ir.Optional(ir.Map(ir.Binary(), ir.String()))),
			rule: "NoComplexMapKeys",
			msg:  "Complex type 'binary' not allowed in map key",
		},
		{
			name: "reserved enum value",
			def:  enum("Color", "RED", "unknown"),
			rule: "EnumValue",
			msg:  "UNKNOWN is a reserved enumeration value",
		},
		{
			name: "lowercase enum value",
			def:  enum("Color", "red"),
			rule: "EnumValue",
			msg:  "Enumeration values must match format",
		},
		{
			name: "duplicate enum values",
			def:  enum("Color", "FOO", "BAR", "FOO"),
			rule: "UniqueEnumValues",
			msg:  "Cannot declare duplicate enum values FOO in enum Color",
		},
		{
			name: "valid union",
			def: &ir.UnionDefinition{Name: tn("Choice"), Members: []ir.FieldDefinition{
				field("text", ir.String()), field("big_number", ir.SafeLong()),
			}},
		},
		{
			name: "valid enum",
			def:  enum("Color", "RED", "DARK_BLUE", "V2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runAll(NewContext(definition(tt.def), Options{}), TypeDefinitionRules, tt.def)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			requireRule(t, err, tt.rule, tt.msg)
		})
	}
}

func TestUniqueEnumValues_CaseSensitive(t *testing.T) {
	ctx := NewContext(definition(), Options{})
	assert.NoError(t, checkUniqueEnumValues(ctx, enum("Color", "FOO", "foo")))
	assert.Error(t, checkUniqueEnumValues(ctx, enum("Color", "FOO", "FOO")))
	assert.NoError(t, checkUniqueEnumValues(ctx, object("Foo")))
}

func TestUnionKeySyntax(t *testing.T) {
	ctx := NewContext(definition(), Options{})
	empty := &ir.UnionDefinition{Name: tn("Choice"), Members: []ir.FieldDefinition{{Type: ir.String()}}}
	assert.ErrorContains(t, checkUnionKeys(ctx, empty), "Union member key must not be empty in union Choice")

	ok := &ir.UnionDefinition{Name: tn("Choice"), Members: []ir.FieldDefinition{field("a", ir.String())}}
	assert.NoError(t, checkUnionKeys(ctx, ok))
}

func TestErrorRules(t *testing.T) {
	safe := ir.SafetySafe
	valid := func() *ir.ErrorDefinition {
		return &ir.ErrorDefinition{
			Name:       tn("FooNotFound"),
			Namespace:  names.MustErrorNamespace("Foo"),
			Code:       names.ErrorNotFound,
			SafeArgs:   []ir.FieldDefinition{field("fooId", ir.String())},
			UnsafeArgs: []ir.FieldDefinition{field("fooName", ir.String())},
		}
	}

	tests := []struct {
		name   string
		modify func(*ir.ErrorDefinition)
		rule   string
		msg    string
	}{
		{name: "valid", modify: func(*ir.ErrorDefinition) {}},
		{
			name:   "missing namespace",
			modify: func(e *ir.ErrorDefinition) { e.Namespace = names.ErrorNamespace{} },
			rule:   "ErrorNamespace",
			msg:    "Namespace for errors must match pattern",
		},
		{
			name: "safe and unsafe args collide",
			modify: func(e *ir.ErrorDefinition) {
				e.UnsafeArgs = append(e.UnsafeArgs, field("foo_id", ir.String()))
			},
			rule: "UniqueFieldNames",
			msg:  "FooNotFound must not contain duplicate field names (modulo case normalization): fooId vs foo_id",
		},
		{
			name:   "arg declares safety",
			modify: func(e *ir.ErrorDefinition) { e.SafeArgs[0].Safety = &safe },
			rule:   "ErrorArgsNoSafety",
			msg:    "Error arguments cannot declare safety",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.modify(e)
			err := runAll(NewContext(definition(), Options{}), ErrorRules, e)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			requireRule(t, err, tt.rule, tt.msg)
		})
	}
}

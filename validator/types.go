package validator

import (
	"slices"
	"strings"

	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

// TypeDefinitionRules run once per named type.
var TypeDefinitionRules = []Rule[ir.TypeDefinition]{
	{"TypeName", checkTypeName},
	{"Package", checkPackage},
	{"UniqueFieldNames", func(_ *Context, d ir.TypeDefinition) error {
		return uniqueFieldNames(d.TypeName().Name.String(), ir.FieldsOf(d))
	}},
	{"FieldName", func(_ *Context, d ir.TypeDefinition) error {
		return checkFieldNames(ir.FieldsOf(d))
	}},
	{"NoComplexMapKeys", func(_ *Context, d ir.TypeDefinition) error {
		return checkMapKeys(definitionTypes(d))
	}},
	{"EnumValue", checkEnumValues},
	{"UniqueEnumValues", checkUniqueEnumValues},
	{"UnionKeySyntax", checkUnionKeys},
}

// ErrorRules run once per error definition.
var ErrorRules = []Rule[*ir.ErrorDefinition]{
	{"TypeName", func(_ *Context, e *ir.ErrorDefinition) error { return typeNameFormat(e.Name) }},
	{"Package", func(_ *Context, e *ir.ErrorDefinition) error { return packageFormat(e.Name) }},
	{"ErrorNamespace", func(_ *Context, e *ir.ErrorDefinition) error {
		if !names.ErrorNamespacePattern.Matches(e.Namespace.String()) {
			return fail("Namespace for errors must match pattern %s: %s", names.ErrorNamespacePattern, e.Namespace)
		}
		return nil
	}},
	{"UniqueFieldNames", func(_ *Context, e *ir.ErrorDefinition) error {
		return uniqueFieldNames(e.Name.Name.String(), e.Args())
	}},
	{"FieldName", func(_ *Context, e *ir.ErrorDefinition) error { return checkFieldNames(e.Args()) }},
	{"NoComplexMapKeys", func(_ *Context, e *ir.ErrorDefinition) error { return checkMapKeys(fieldTypes(e.Args())) }},
	{"ErrorArgsNoSafety", func(_ *Context, e *ir.ErrorDefinition) error {
		for _, a := range e.Args() {
			if a.Safety != nil {
				return fail("Error arguments cannot declare safety, safe-args and unsafe-args define it: %s.%s",
					e.Name.Name, a.Name)
			}
		}
		return nil
	}},
}

func typeNameFormat(n ir.TypeName) error {
	s := n.Name.String()
	if names.IsReservedPrimitive(s) {
		return fail("Invalid use of a built-in identifier (please check case): %s", s)
	}
	if names.IsPrimitive(s) || names.TypeNamePattern.Matches(s) {
		return nil
	}
	return fail("TypeNames must be a primitive or match pattern %s: %s", names.TypeNamePattern, s)
}

func checkTypeName(_ *Context, d ir.TypeDefinition) error {
	return typeNameFormat(d.TypeName())
}

func checkPackage(_ *Context, d ir.TypeDefinition) error {
	return packageFormat(d.TypeName())
}

func packageFormat(n ir.TypeName) error {
	pkg := n.Package.String()
	if pkg == "" || !names.PackagePattern.Matches(pkg) {
		return fail("Conjure package names must match pattern %s: %q for %s", names.PackagePattern, pkg, n.Name)
	}
	return nil
}

// uniqueFieldNames rejects two fields whose names normalize to the same
// camel case spelling, such as fooBar and foo-bar.
func uniqueFieldNames(owner string, fields []ir.FieldDefinition) error {
	seen := make(map[string]names.FieldName, len(fields))
	for _, f := range fields {
		key := f.Name.Normalized()
		if prev, ok := seen[key]; ok {
			return fail("%s must not contain duplicate field names (modulo case normalization): %s vs %s",
				owner, prev, f.Name)
		}
		seen[key] = f.Name
	}
	return nil
}

func checkFieldNames(fields []ir.FieldDefinition) error {
	for _, f := range fields {
		if _, ok := names.CaseOf(f.Name.String()); !ok {
			return fail("FieldName %q must follow one of the following patterns: %s, %s, %s",
				f.Name, names.CamelCasePattern, names.KebabCasePattern, names.SnakeCasePattern)
		}
	}
	return nil
}

func fieldTypes(fields []ir.FieldDefinition) []ir.Type {
	ts := make([]ir.Type, len(fields))
	for i, f := range fields {
		ts[i] = f.Type
	}
	return ts
}

func definitionTypes(d ir.TypeDefinition) []ir.Type {
	if a, ok := d.(*ir.AliasDefinition); ok {
		return []ir.Type{a.Alias}
	}
	return fieldTypes(ir.FieldsOf(d))
}

func checkMapKeys(types []ir.Type) error {
	var bad ir.Type
	for _, t := range types {
		ir.Walk(t, func(t ir.Type) bool {
			if m, ok := t.(*ir.MapType); ok && bad == nil && !ir.IsPrimitiveOrReference(m.Key) {
				bad = m.Key
			}
			return bad == nil
		})
		if bad != nil {
			return fail("Complex type '%s' not allowed in map key: %s", bad, t)
		}
	}
	return nil
}

func checkEnumValues(_ *Context, d ir.TypeDefinition) error {
	enum, ok := d.(*ir.EnumDefinition)
	if !ok {
		return nil
	}
	for _, v := range enum.Values {
		if strings.EqualFold(v.Value, "UNKNOWN") {
			return fail("UNKNOWN is a reserved enumeration value: %s", enum.Name.Name)
		}
		if !names.EnumValuePattern.Matches(v.Value) {
			return fail("Enumeration values must match format %s: %s", names.EnumValuePattern, v.Value)
		}
	}
	return nil
}

func checkUniqueEnumValues(_ *Context, d ir.TypeDefinition) error {
	enum, ok := d.(*ir.EnumDefinition)
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(enum.Values))
	var dups []string
	for _, v := range enum.Values {
		if seen[v.Value] && !slices.Contains(dups, v.Value) {
			dups = append(dups, v.Value)
		}
		seen[v.Value] = true
	}
	if len(dups) > 0 {
		return fail("Cannot declare duplicate enum values %s in enum %s", strings.Join(dups, ", "), enum.Name.Name)
	}
	return nil
}

func checkUnionKeys(_ *Context, d ir.TypeDefinition) error {
	union, ok := d.(*ir.UnionDefinition)
	if !ok {
		return nil
	}
	for _, m := range union.Members {
		key := m.Name.String()
		switch {
		case key == "":
			return fail("Union member key must not be empty in union %s", union.Name.Name)
		case strings.HasSuffix(key, "_"):
			return fail("Union member key must not end with an underscore: %s.%s", union.Name.Name, key)
		}
		if _, ok := names.CaseOf(key); !ok {
			return fail("Union member key must be a valid identifier: %s.%s", union.Name.Name, key)
		}
	}
	return nil
}

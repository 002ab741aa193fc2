package validator

import "github.com/broady/conjure/ir"

// Dealiased is the result of following aliases: either a non-alias named
// definition or a type expression that is not a reference.
type Dealiased struct {
	Definition ir.TypeDefinition
	Type       ir.Type
}

// IsEnum reports whether the result is an enum definition.
func (d Dealiased) IsEnum() bool {
	_, ok := d.Definition.(*ir.EnumDefinition)
	return ok
}

// IsPrimitive reports whether the result is the primitive k.
func (d Dealiased) IsPrimitive(k ir.PrimitiveKind) bool {
	return d.Type != nil && ir.IsPrimitiveKind(d.Type, k)
}

// Dealias follows references through alias definitions. Alias cycles are
// rejected earlier by NoRecursiveTypes; a reference to an unknown name is
// returned unchanged.
func (c *Context) Dealias(t ir.Type) Dealiased {
	for range len(c.types) + 1 {
		ref, ok := t.(*ir.ReferenceType)
		if !ok {
			return Dealiased{Type: t}
		}
		def := c.types[ref.Name]
		alias, ok := def.(*ir.AliasDefinition)
		if !ok {
			if def == nil {
				return Dealiased{Type: t}
			}
			return Dealiased{Definition: def}
		}
		t = alias.Alias
	}
	return Dealiased{Type: t}
}

package validator

import (
	"fmt"

	"github.com/broady/conjure/ir"
)

// SafetyRules run last, once over the whole graph.
var SafetyRules = []Rule[*ir.Definition]{
	{"SafetyDeclaration", checkSafetyDeclarations},
	{"SafetyRequired", checkSafetyRequired},
}

// safetySite is one place that may declare log safety.
type safetySite struct {
	qualifier string
	t         ir.Type
	safety    *ir.LogSafety
}

func safetySites(def *ir.Definition) []safetySite {
	var sites []safetySite
	for _, t := range def.Types {
		switch t := t.(type) {
		case *ir.AliasDefinition:
			sites = append(sites, safetySite{t.Name.String(), t.Alias, t.Safety})
		case *ir.ObjectDefinition, *ir.UnionDefinition:
			for _, f := range ir.FieldsOf(t) {
				sites = append(sites, safetySite{t.TypeName().String() + "::" + f.Name.String(), f.Type, f.Safety})
			}
		}
	}
	for _, s := range def.Services {
		for _, ep := range s.Endpoints {
			for _, a := range ep.Args {
				sites = append(sites, safetySite{
					fmt.Sprintf("%s::%s(%s)", s.Name, ep.Name, a.Name), a.Type, a.Safety,
				})
			}
			if ep.Returns != nil && ep.ReturnSafety != nil {
				sites = append(sites, safetySite{fmt.Sprintf("%s::%s", s.Name, ep.Name), ep.Returns, ep.ReturnSafety})
			}
		}
	}
	return sites
}

// canDeclareSafety checks that t, followed through aliases, is a primitive
// or a wrapper around one.
func (c *Context) canDeclareSafety(qualifier string, t ir.Type) error {
	d := c.Dealias(t)
	if d.Definition != nil {
		name := d.Definition.TypeName()
		return fail("%s cannot declare log safety. Only conjure primitives and wrappers around conjure primitives may declare safety. %s.%s is not a primitive type.",
			qualifier, name.Package, name.Name)
	}
	switch t := d.Type.(type) {
	case *ir.PrimitiveType:
		if t.Is(ir.PrimitiveBearerToken) {
			return fail("%s cannot declare log safety: bearertoken values are do-not-log by default and cannot be configured", qualifier)
		}
		return nil
	case *ir.OptionalType:
		return c.canDeclareSafety(qualifier, t.Item)
	case *ir.ListType:
		return c.canDeclareSafety(qualifier, t.Item)
	case *ir.SetType:
		return c.canDeclareSafety(qualifier, t.Item)
	case *ir.MapType:
		return fail("Maps cannot declare log safety. Consider using alias types for keys or values to leverage the type system. Failing map: %s", qualifier)
	case *ir.ExternalType:
		return fail("%s cannot declare log safety. Only conjure primitives and wrappers around conjure primitives may declare safety. %s.%s is not a primitive type.",
			qualifier, t.Package, t.Name)
	}
	return fail("%s cannot declare log safety on unresolved type %s", qualifier, t)
}

func checkSafetyDeclarations(ctx *Context, def *ir.Definition) error {
	for _, s := range safetySites(def) {
		if s.safety == nil {
			continue
		}
		if err := ctx.canDeclareSafety(s.qualifier, s.t); err != nil {
			return err
		}
	}
	return nil
}

// carriesSafety reports whether t holds a primitive directly, so that its
// safety can only come from the declaration. References carry the safety of
// their own definition.
func carriesSafety(t ir.Type) bool {
	switch t := t.(type) {
	case *ir.PrimitiveType:
		return !t.Is(ir.PrimitiveBearerToken)
	case *ir.OptionalType:
		return carriesSafety(t.Item)
	case *ir.ListType:
		return carriesSafety(t.Item)
	case *ir.SetType:
		return carriesSafety(t.Item)
	}
	return false
}

func checkSafetyRequired(ctx *Context, def *ir.Definition) error {
	if !ctx.opts.RequireSafety {
		return nil
	}
	for _, s := range safetySites(def) {
		if s.safety == nil && carriesSafety(s.t) {
			return fail("%s must declare log safety using 'safety: VALUE' where VALUE may be safe, unsafe, or do-not-log.", s.qualifier)
		}
	}
	return nil
}

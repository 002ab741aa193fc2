package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/ir"
)

// DefinitionRules run once over the whole graph, in order.
var DefinitionRules = []Rule[*ir.Definition]{
	{"UniqueServiceNames", checkUniqueServiceNames},
	{"IllegalVersion", checkVersion},
	{"NoRecursiveTypes", checkNoRecursiveTypes},
	{"UniqueNames", checkUniqueNames},
	{"NoNestedOptional", checkNoNestedOptional},
	{"UniquePathMethods", checkUniquePathMethodsAcrossServices},
}

func checkUniqueServiceNames(_ *Context, def *ir.Definition) error {
	seen := make(map[string]bool, len(def.Services))
	var dups []string
	for _, svc := range def.Services {
		name := svc.Name.Name.String()
		if seen[name] && !slices.Contains(dups, name) {
			dups = append(dups, name)
		}
		seen[name] = true
	}
	if len(dups) > 0 {
		return errs.New(errs.CodeDuplicateName, "Service names must be unique: "+strings.Join(dups, ", "), dups...)
	}
	return nil
}

func checkVersion(_ *Context, def *ir.Definition) error {
	if def.Version != ir.SupportedVersion {
		return errs.Errorf(errs.CodeUnsupportedVersion,
			"Definition version must be %d, but version %d is provided instead.", ir.SupportedVersion, def.Version)
	}
	return nil
}

// checkNoRecursiveTypes walks the graph whose edges are direct references
// from object fields and alias targets. Container types do not create
// edges, so optional<Self> and list<Self> are legal.
func checkNoRecursiveTypes(_ *Context, def *ir.Definition) error {
	edges := make(map[ir.TypeName][]ir.TypeName)
	for _, t := range def.Types {
		switch t := t.(type) {
		case *ir.ObjectDefinition:
			for _, f := range t.Fields {
				if ref, ok := ir.ExtractReference(f.Type); ok {
					edges[t.Name] = append(edges[t.Name], ref)
				}
			}
		case *ir.AliasDefinition:
			if ref, ok := ir.ExtractReference(t.Alias); ok {
				edges[t.Name] = append(edges[t.Name], ref)
			}
		}
	}

	done := make(map[ir.TypeName]bool)
	var path []ir.TypeName
	var visit func(n ir.TypeName) []ir.TypeName
	visit = func(n ir.TypeName) []ir.TypeName {
		if i := slices.Index(path, n); i >= 0 {
			return append(slices.Clone(path[i:]), n)
		}
		if done[n] {
			return nil
		}
		path = append(path, n)
		for _, next := range edges[n] {
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		done[n] = true
		return nil
	}

	for _, t := range def.Types {
		if cycle := visit(t.TypeName()); cycle != nil {
			parts := make([]string, len(cycle))
			for i, n := range cycle {
				parts[i] = n.Name.String()
			}
			return errs.New(errs.CodeRecursiveType,
				"Illegal recursive data type: "+strings.Join(parts, " -> "), parts[:len(parts)-1]...)
		}
	}
	return nil
}

func checkUniqueNames(_ *Context, def *ir.Definition) error {
	var all []ir.TypeName
	for _, t := range def.Types {
		all = append(all, t.TypeName())
	}
	for _, e := range def.Errors {
		all = append(all, e.Name)
	}
	for _, s := range def.Services {
		all = append(all, s.Name)
	}

	seen := make(map[ir.TypeName]bool, len(all))
	var dups []string
	for _, n := range all {
		if seen[n] && !slices.Contains(dups, n.String()) {
			dups = append(dups, n.String())
		}
		seen[n] = true
	}
	if len(dups) == 0 {
		return nil
	}
	occurrences := make([]string, 0, len(seen))
	for n := range seen {
		occurrences = append(occurrences, n.String())
	}
	slices.Sort(occurrences)
	return errs.New(errs.CodeDuplicateName, fmt.Sprintf(
		"Type, error, and service names must be unique across locally defined and imported types/errors: %s (seen: %s)",
		strings.Join(dups, ", "), errs.FormatList(occurrences)), dups...)
}

// hasNestedOptional reports whether t contains an optional whose item,
// after following aliases, is itself optional.
func (c *Context) hasNestedOptional(t ir.Type) bool {
	found := false
	ir.Walk(t, func(t ir.Type) bool {
		if found {
			return false
		}
		switch t := t.(type) {
		case *ir.OptionalType:
			if _, ok := c.Dealias(t.Item).Type.(*ir.OptionalType); ok {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func checkNoNestedOptional(ctx *Context, def *ir.Definition) error {
	for _, t := range def.Types {
		switch t := t.(type) {
		case *ir.AliasDefinition:
			if ctx.hasNestedOptional(t.Alias) {
				return fail("Illegal nested optionals found in alias %s", t.Name.Name)
			}
		case *ir.ObjectDefinition:
			for _, f := range t.Fields {
				if ctx.hasNestedOptional(f.Type) {
					return fail("Illegal nested optionals found in object %s", t.Name.Name)
				}
			}
		case *ir.UnionDefinition:
			for _, f := range t.Members {
				if ctx.hasNestedOptional(f.Type) {
					return fail("Illegal nested optionals found in union %s", t.Name.Name)
				}
			}
		}
	}
	for _, e := range def.Errors {
		for _, a := range e.Args() {
			if ctx.hasNestedOptional(a.Type) {
				return fail("Illegal nested optionals found in one of arguments of error %s", e.Name.Name)
			}
		}
	}
	for _, s := range def.Services {
		for _, ep := range s.Endpoints {
			for _, a := range ep.Args {
				if ctx.hasNestedOptional(a.Type) {
					return fail("Illegal nested optionals found in one of the arguments of endpoint %s", ep.Name)
				}
			}
			if ep.Returns != nil && ctx.hasNestedOptional(ep.Returns) {
				return fail("Illegal nested optionals found in return type of endpoint %s", ep.Name)
			}
		}
	}
	return nil
}

// Package resolve maps the raw names and type expressions of a parsed file
// onto package-qualified names and ir types. Imported files are resolved
// with their own scope and flattened into the caller's namespace, so the
// resulting graph has no notion of cross-file references.
package resolve

import (
	"slices"
	"strings"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/internal/parser"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

// Scope resolves references within one file.
type Scope struct {
	file           *parser.File
	defaultPackage string

	types     map[string]ir.TypeName
	errors    map[string]ir.TypeName
	externals map[string]*ir.ExternalType
	imports   map[string]*Scope

	// base types of externals whose fallback is not resolved yet
	pending   map[string]string
	resolving map[string]bool
}

// New builds the scope of f and, recursively, of every file it imports.
func New(f *parser.File) (*Scope, error) {
	return newScope(f, make(map[*parser.File]*Scope))
}

func newScope(f *parser.File, seen map[*parser.File]*Scope) (*Scope, error) {
	if s, ok := seen[f]; ok {
		return s, nil
	}
	defs := f.Types.Definitions
	s := &Scope{
		file:           f,
		defaultPackage: defs.DefaultPackage,
		types:          make(map[string]ir.TypeName, defs.Objects.Len()),
		errors:         make(map[string]ir.TypeName, defs.Errors.Len()),
		externals:      make(map[string]*ir.ExternalType, f.Types.Imports.Len()),
		imports:        make(map[string]*Scope, len(f.Imported)),
		pending:        make(map[string]string, f.Types.Imports.Len()),
		resolving:      make(map[string]bool),
	}
	seen[f] = s

	for _, e := range defs.Objects.Entries {
		tn, err := s.TypeName(e.Key, e.Value.Package)
		if err != nil {
			return nil, err
		}
		s.types[e.Key] = tn
	}
	for _, e := range defs.Errors.Entries {
		tn, err := s.TypeName(e.Key, e.Value.Package)
		if err != nil {
			return nil, err
		}
		s.errors[e.Key] = tn
	}
	for _, e := range f.Types.Imports.Entries {
		ext, err := s.external(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		s.externals[e.Key] = ext
		s.pending[e.Key] = e.Value.BaseType
	}
	for _, ns := range sortedKeys(f.Imported) {
		imp, err := newScope(f.Imported[ns], seen)
		if err != nil {
			return nil, err
		}
		s.imports[ns] = imp
	}
	for _, e := range f.Types.Imports.Entries {
		if err := s.resolveFallback(e.Key); err != nil {
			return nil, err
		}
	}
	s.pending, s.resolving = nil, nil
	return s, nil
}

// File returns the parsed file of this scope.
func (s *Scope) File() *parser.File { return s.file }

// TypeName qualifies a definition name with its explicit package, falling
// back to the file's default package.
func (s *Scope) TypeName(name, pkg string) (ir.TypeName, error) {
	if pkg == "" {
		pkg = s.defaultPackage
	}
	if pkg == "" {
		return ir.TypeName{}, errs.New(errs.CodeMissingPackage,
			"Must provide default conjure package or explicit conjure package for every object and service: "+name, name)
	}
	return ir.NewTypeName(name, pkg)
}

func (s *Scope) external(key string, def parser.ExternalImportDef) (*ir.ExternalType, error) {
	if _, err := names.NewTypeName(key); err != nil {
		return nil, err
	}
	i := strings.LastIndex(def.External.Java, ".")
	if i <= 0 || i == len(def.External.Java)-1 {
		return nil, errs.Errorf(errs.CodeParse, "imports %s: external type %q must be package-qualified", key, def.External.Java)
	}
	ext := ir.External(def.External.Java[:i], def.External.Java[i+1:], nil)
	if def.Safety != "" {
		safety, err := ir.ParseLogSafety(def.Safety)
		if err != nil {
			return nil, errs.Wrap(errs.CodeParse, err)
		}
		ext.Safety = &safety
	}
	return ext, nil
}

// resolveFallback resolves the base type of an external import. Externals
// may name each other in any order but not in a cycle.
func (s *Scope) resolveFallback(key string) error {
	base, ok := s.pending[key]
	if !ok {
		return nil
	}
	if s.resolving[key] {
		return errs.New(errs.CodeRecursiveType, "Illegal recursive external import: "+key, key)
	}
	s.resolving[key] = true
	if base == "" {
		base = "any"
	}
	fallback, err := s.Resolve(base)
	if err != nil {
		return err
	}
	s.externals[key].Fallback = fallback
	delete(s.pending, key)
	return nil
}

// Resolve parses and resolves a type expression.
func (s *Scope) Resolve(expr string) (ir.Type, error) {
	t, err := parser.ParseType(expr)
	if err != nil {
		return nil, errs.Wrap(errs.CodeParse, err)
	}
	return s.ResolveExpr(t)
}

// ResolveExpr resolves a parsed type expression.
func (s *Scope) ResolveExpr(t parser.TypeExpr) (ir.Type, error) {
	switch t := t.(type) {
	case parser.PrimitiveExpr:
		k, ok := ir.ParsePrimitiveKind(t.Name)
		if !ok {
			return nil, errs.Errorf(errs.CodeParse, "unknown primitive %q", t.Name)
		}
		return ir.Primitive(k), nil
	case parser.OptionalExpr:
		item, err := s.ResolveExpr(t.Item)
		if err != nil {
			return nil, err
		}
		return ir.Optional(item), nil
	case parser.ListExpr:
		item, err := s.ResolveExpr(t.Item)
		if err != nil {
			return nil, err
		}
		return ir.List(item), nil
	case parser.SetExpr:
		item, err := s.ResolveExpr(t.Item)
		if err != nil {
			return nil, err
		}
		return ir.Set(item), nil
	case parser.MapExpr:
		key, err := s.ResolveExpr(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := s.ResolveExpr(t.Value)
		if err != nil {
			return nil, err
		}
		return ir.Map(key, value), nil
	case parser.LocalRef:
		return s.local(t.Name)
	case parser.ForeignRef:
		imp, ok := s.imports[t.Namespace]
		if !ok {
			return nil, errs.New(errs.CodeUnknownNamespace, "Import not found for namespace: "+t.Namespace, t.Namespace)
		}
		return imp.local(t.Name)
	}
	return nil, errs.Errorf(errs.CodeParse, "unsupported type expression %T", t)
}

// local resolves a name against the file's own definitions, then its
// external imports.
func (s *Scope) local(name string) (ir.Type, error) {
	if _, err := names.NewTypeName(name); err != nil {
		return nil, err
	}
	if tn, ok := s.types[name]; ok {
		return ir.Ref(tn), nil
	}
	if ext, ok := s.externals[name]; ok {
		if err := s.resolveFallback(name); err != nil {
			return nil, err
		}
		cp := *ext
		return &cp, nil
	}
	return nil, errs.New(errs.CodeUnresolvedReference, "Unknown LocalReferenceType: "+name, name)
}

// ErrorName resolves a reference to an error definition, either local or
// namespace-qualified.
func (s *Scope) ErrorName(ref string) (ir.TypeName, error) {
	scope, name := s, ref
	if ns, local, ok := strings.Cut(ref, "."); ok {
		imp, found := s.imports[ns]
		if !found {
			return ir.TypeName{}, errs.New(errs.CodeUnknownNamespace, "Import not found for namespace: "+ns, ns)
		}
		scope, name = imp, local
	}
	if tn, ok := scope.errors[name]; ok {
		return tn, nil
	}
	return ir.TypeName{}, errs.New(errs.CodeUnresolvedReference, "Unknown error reference: "+ref, ref)
}

// Scopes returns every scope reachable from s, each once, imports before
// importers and siblings in namespace order.
func (s *Scope) Scopes() []*Scope {
	var out []*Scope
	seen := make(map[*Scope]bool)
	var visit func(*Scope)
	visit = func(sc *Scope) {
		if seen[sc] {
			return
		}
		seen[sc] = true
		for _, ns := range sortedKeys(sc.imports) {
			visit(sc.imports[ns])
		}
		out = append(out, sc)
	}
	visit(s)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Package validator checks an assembled definition graph against the
// structural and naming rules that generators rely on.
//
// Every rule is a pure function of the graph. Validate runs the rules in a
// fixed order and returns the first failure; a rule that scans a collection
// reports everything it found for that rule in one error.
package validator

import (
	"errors"
	"fmt"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/ir"
)

// Options tunes optional rules.
type Options struct {
	// RequireSafety makes every field, alias and argument whose type can
	// carry log safety declare it.
	RequireSafety bool
}

// Context is the read-only state shared by the rules of one run.
type Context struct {
	types map[ir.TypeName]ir.TypeDefinition
	opts  Options
}

// NewContext indexes def for lookups by the rules.
func NewContext(def *ir.Definition, opts Options) *Context {
	return &Context{types: def.TypeIndex(), opts: opts}
}

// Lookup returns the definition named n, or nil.
func (c *Context) Lookup(n ir.TypeName) ir.TypeDefinition { return c.types[n] }

// Rule is a named check over one element of the graph.
type Rule[T any] struct {
	Name  string
	Check func(*Context, T) error
}

// Validate runs the check and tags any failure with the rule name.
func (r Rule[T]) Validate(ctx *Context, v T) error {
	err := r.Check(ctx, v)
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		if e.Rule == "" {
			cp := *e
			cp.Rule = r.Name
			return &cp
		}
		return err
	}
	if _, ok := errs.CodeOf(err); ok {
		return err
	}
	return &errs.Error{Code: errs.CodeValidation, Rule: r.Name, Message: err.Error(), Err: err}
}

// runAll stops at the first failing rule.
func runAll[T any](ctx *Context, rules []Rule[T], v T) error {
	for _, r := range rules {
		if err := r.Validate(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// fail builds an untagged validation failure; Rule.Validate tags it.
func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Validate checks the whole graph. Graph-level rules run first, then the
// rules for each type, error and service in source order, then safety.
func Validate(def *ir.Definition, opts Options) error {
	ctx := NewContext(def, opts)
	if err := runAll(ctx, DefinitionRules, def); err != nil {
		return err
	}
	for _, t := range def.Types {
		if err := runAll(ctx, TypeDefinitionRules, t); err != nil {
			return err
		}
	}
	for i := range def.Errors {
		if err := runAll(ctx, ErrorRules, &def.Errors[i]); err != nil {
			return err
		}
	}
	for i := range def.Services {
		svc := &def.Services[i]
		if err := runAll(ctx, ServiceRules, svc); err != nil {
			return err
		}
		for j := range svc.Endpoints {
			if err := runAll(ctx, EndpointRules, &svc.Endpoints[j]); err != nil {
				return err
			}
		}
	}
	return runAll(ctx, SafetyRules, def)
}

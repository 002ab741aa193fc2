package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/internal/httppath"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

// EndpointRules run once per endpoint.
var EndpointRules = []Rule[*ir.EndpointDefinition]{
	{"EndpointName", checkEndpointName},
	{"NoUnsupportedHttpMethod", checkHTTPMethod},
	{"HttpPath", func(_ *Context, ep *ir.EndpointDefinition) error {
		_, err := httppath.Parse(ep.Path)
		return err
	}},
	{"ParameterName", checkParameterNames},
	{"ParamId", checkParamIDs},
	{"SingleBodyParam", checkSingleBody},
	{"NoGetBody", checkNoGetBody},
	{"PathParam", checkPathParams},
	{"NonBodyArgumentType", checkNonBodyTypes},
	{"NoBearerTokenPathOrQueryParams", checkNoBearerToken},
	{"NoComplexPathParams", checkPathParamTypes},
	{"NoComplexHeaderParams", checkHeaderParamTypes},
	{"NoComplexQueryParams", checkQueryParamTypes},
	{"NoOptionalBinaryBody", checkOptionalBinaryBody},
	{"NoDuplicateEndpointErrors", checkDuplicateErrors},
}

func checkEndpointName(_ *Context, ep *ir.EndpointDefinition) error {
	if !names.CamelCasePattern.Matches(ep.Name.String()) {
		return fail("Endpoint names must match pattern %s: %q", names.CamelCasePattern, ep.Name)
	}
	return nil
}

func checkHTTPMethod(_ *Context, ep *ir.EndpointDefinition) error {
	if !slices.Contains(ir.HTTPMethods, ep.Method) {
		return fail("Endpoint %s uses unsupported HTTP method %q", ep.Name, ep.Method)
	}
	return nil
}

func checkParameterNames(_ *Context, ep *ir.EndpointDefinition) error {
	for _, a := range ep.Args {
		if !httppath.ParamNamePattern.MatchString(a.Name.String()) {
			return errs.New(errs.CodeValidation, fmt.Sprintf(
				"Parameter names in endpoint paths and service definitions must match pattern %s: %s on endpoint %s",
				httppath.ParamNamePattern, a.Name, ep.Describe()), a.Name.String())
		}
	}
	return nil
}

func checkParamIDs(_ *Context, ep *ir.EndpointDefinition) error {
	for _, a := range ep.Args {
		id := a.ParamType.ID.String()
		switch a.ParamType.Kind {
		case names.ParamHeader:
			if !names.HeaderPattern.Matches(id) {
				return fail("Header parameter id %s on endpoint %s must match pattern %s", id, ep.Describe(), names.HeaderPattern)
			}
			if slices.Contains(names.ProtocolHeaders, id) {
				return fail("Header parameter id %s on endpoint %s should not be one of the protocol headers %s",
					id, ep.Describe(), errs.FormatList(names.ProtocolHeaders))
			}
		case names.ParamQuery:
			if _, ok := names.CaseOf(id); !ok {
				return fail("Query param id %s on endpoint %s must match one of the following patterns: %s",
					id, ep.Describe(), strings.Join([]string{
						names.CamelCasePattern.String(), names.KebabCasePattern.String(), names.SnakeCasePattern.String(),
					}, ", "))
			}
		}
	}
	return nil
}

func argsOfKind(ep *ir.EndpointDefinition, kind names.ParamKind) []ir.ArgumentDefinition {
	var out []ir.ArgumentDefinition
	for _, a := range ep.Args {
		if a.ParamType.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func argNames(args []ir.ArgumentDefinition) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Name.String()
	}
	return out
}

func checkSingleBody(_ *Context, ep *ir.EndpointDefinition) error {
	if body := argsOfKind(ep, names.ParamBody); len(body) > 1 {
		bodyNames := argNames(body)
		return errs.New(errs.CodeValidation, fmt.Sprintf("Endpoint '%s' cannot have multiple body parameters: %s",
			ep.Describe(), errs.FormatList(bodyNames)), bodyNames...)
	}
	return nil
}

func checkNoGetBody(_ *Context, ep *ir.EndpointDefinition) error {
	if ep.Method == ir.MethodGet && len(argsOfKind(ep, names.ParamBody)) > 0 {
		return fail("Endpoint '%s' cannot be a GET and contain a body", ep.Describe())
	}
	return nil
}

// checkPathParams requires the path arguments and the template variables to
// be the same set, with no argument declared twice.
func checkPathParams(_ *Context, ep *ir.EndpointDefinition) error {
	seen := make(map[string]bool)
	for _, a := range argsOfKind(ep, names.ParamPath) {
		id := a.Name.String()
		if seen[id] {
			return errs.New(errs.CodeValidation, fmt.Sprintf(
				"Path parameter with identifier %q is defined multiple times for endpoint %s", id, ep.Describe()), id)
		}
		seen[id] = true
	}

	p, err := httppath.Parse(ep.Path)
	if err != nil {
		return err
	}
	vars := make(map[string]bool)
	for _, v := range p.Vars() {
		vars[v] = true
	}

	var extra, missing []string
	for id := range seen {
		if !vars[id] {
			extra = append(extra, id)
		}
	}
	for v := range vars {
		if !seen[v] {
			missing = append(missing, v)
		}
	}
	slices.Sort(extra)
	slices.Sort(missing)

	if len(extra) > 0 {
		return errs.New(errs.CodeValidation, fmt.Sprintf(
			"Path parameters defined in endpoint but not present in path template: %s", errs.FormatList(extra)), extra...)
	}
	if len(missing) > 0 {
		return errs.New(errs.CodeValidation, fmt.Sprintf(
			"Path parameters %s defined path template but not present in endpoint: %s",
			errs.FormatList(missing), ep.Describe()), missing...)
	}
	return nil
}

// element follows aliases and strips any optional, list and set wrappers.
func (c *Context) element(t ir.Type) Dealiased {
	for range len(c.types) + 1 {
		d := c.Dealias(t)
		switch inner := d.Type.(type) {
		case *ir.OptionalType:
			t = inner.Item
		case *ir.ListType:
			t = inner.Item
		case *ir.SetType:
			t = inner.Item
		default:
			return d
		}
	}
	return c.Dealias(t)
}

func checkNonBodyTypes(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range ep.Args {
		if a.ParamType.IsBody() {
			continue
		}
		el := ctx.element(a.Type)
		for _, k := range []ir.PrimitiveKind{ir.PrimitiveBinary, ir.PrimitiveAny} {
			if el.IsPrimitive(k) {
				return fail("Non body parameters cannot contain the '%s' type. Parameter '%s' from endpoint '%s' violates this constraint.",
					k, a.Name, ep.Describe())
			}
		}
	}
	return nil
}

func checkNoBearerToken(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range ep.Args {
		if !a.ParamType.IsPath() && !a.ParamType.IsQuery() {
			continue
		}
		if ctx.element(a.Type).IsPrimitive(ir.PrimitiveBearerToken) {
			return fail("Path or query parameters of type 'bearertoken' are not allowed as this would introduce a security vulnerability: %q endpoint %q",
				a.Name, ep.Describe())
		}
	}
	return nil
}

func checkPathParamTypes(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range argsOfKind(ep, names.ParamPath) {
		d := ctx.Dealias(a.Type)
		if d.IsEnum() {
			continue
		}
		if d.Definition != nil || !ir.IsPrimitiveOrReference(d.Type) {
			return fail("Path parameters must be primitives or aliases: %q is not allowed on endpoint %s", a.Name, ep.Describe())
		}
	}
	return nil
}

// simpleParam reports whether d is an enum or a primitive other than any.
// External types are judged by their fallback.
func (c *Context) simpleParam(d Dealiased) bool {
	if d.IsEnum() {
		return true
	}
	if ext, ok := ir.ExtractExternal(d.Type); ok && ext.Fallback != nil {
		return c.simpleParam(c.Dealias(ext.Fallback))
	}
	p, ok := d.Type.(*ir.PrimitiveType)
	return ok && !p.Is(ir.PrimitiveAny)
}

func (c *Context) headerParam(t ir.Type) bool {
	d := c.Dealias(t)
	if opt, ok := d.Type.(*ir.OptionalType); ok {
		return c.headerParam(opt.Item)
	}
	return c.simpleParam(d)
}

func checkHeaderParamTypes(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range argsOfKind(ep, names.ParamHeader) {
		if !ctx.headerParam(a.Type) {
			return fail("Header parameters must be enums, primitives, aliases or optional primitive: %q is not allowed on endpoint %s",
				a.Name, ep.Describe())
		}
	}
	return nil
}

func (c *Context) queryParam(t ir.Type) bool {
	d := c.Dealias(t)
	switch inner := d.Type.(type) {
	case *ir.OptionalType:
		return c.simpleParam(c.Dealias(inner.Item))
	case *ir.ListType:
		return c.simpleParam(c.Dealias(inner.Item))
	case *ir.SetType:
		return c.simpleParam(c.Dealias(inner.Item))
	}
	return c.simpleParam(d)
}

func checkQueryParamTypes(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range argsOfKind(ep, names.ParamQuery) {
		if !ctx.queryParam(a.Type) {
			return fail("Query parameters must be enums or primitives when de-aliased, or containers of these (list, sets, optionals): '%s' is not allowed on endpoint '%s'",
				a.Name, ep.Describe())
		}
	}
	return nil
}

func checkOptionalBinaryBody(ctx *Context, ep *ir.EndpointDefinition) error {
	for _, a := range argsOfKind(ep, names.ParamBody) {
		opt, ok := ctx.Dealias(a.Type).Type.(*ir.OptionalType)
		if ok && ctx.Dealias(opt.Item).IsPrimitive(ir.PrimitiveBinary) {
			return fail("Endpoint BODY argument must not be optional<binary> or alias thereof: %s", ep.Describe())
		}
	}
	return nil
}

func checkDuplicateErrors(_ *Context, ep *ir.EndpointDefinition) error {
	seen := make(map[ir.TypeName]bool, len(ep.Errors))
	for _, e := range ep.Errors {
		if seen[e] {
			return fail("Endpoint %s declares error %s more than once", ep.Describe(), e)
		}
		seen[e] = true
	}
	return nil
}

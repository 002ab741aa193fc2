package conjure

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/internal/httppath"
	"github.com/broady/conjure/internal/metrics"
	"github.com/broady/conjure/internal/parser"
	"github.com/broady/conjure/internal/resolve"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

// Warning codes attached to ir.Warning.
const (
	WarnFieldName    = "legacy_field_name"
	WarnQueryParamID = "legacy_query_param_id"
)

// assembler builds one ir.Definition from the scopes of a compilation.
type assembler struct {
	opts   Options
	logger *slog.Logger
	def    *ir.Definition
}

// addScope adds the types and errors of s. Services are only added for the
// compiled file itself; imported files contribute definitions, not services.
func (a *assembler) addScope(s *resolve.Scope, root bool) error {
	f := s.File()
	defs := f.Types.Definitions
	for _, e := range defs.Objects.Entries {
		t, err := a.typeDefinition(s, e.Key, &e.Value)
		if err != nil {
			return fmt.Errorf("%s: objects %s: %w", f.Path, e.Key, err)
		}
		a.def.Types = append(a.def.Types, t)
	}
	for _, e := range defs.Errors.Entries {
		d, err := a.errorDefinition(s, e.Key, &e.Value)
		if err != nil {
			return fmt.Errorf("%s: errors %s: %w", f.Path, e.Key, err)
		}
		a.def.Errors = append(a.def.Errors, d)
	}
	if !root {
		return nil
	}
	for _, e := range f.Services.Entries {
		svc, err := a.service(s, e.Key, &e.Value)
		if err != nil {
			return fmt.Errorf("%s: services %s: %w", f.Path, e.Key, err)
		}
		a.def.Services = append(a.def.Services, svc)
	}
	return nil
}

// warn records a legacy spelling. In strict mode it is an error instead.
func (a *assembler) warn(code string, owner ir.TypeName, msg string, attrs ...any) error {
	if a.opts.Strict {
		return errs.New(errs.CodeFormat, msg+" (strict mode)")
	}
	a.logger.Warn(msg, append([]any{slog.String("code", code), slog.String("type", owner.String())}, attrs...)...)
	a.def.AddWarning(ir.Warning{Code: code, Message: msg, TypeName: owner.String()})
	return nil
}

func parseSafety(s string) (*ir.LogSafety, error) {
	if s == "" {
		return nil, nil
	}
	safety, err := ir.ParseLogSafety(s)
	if err != nil {
		return nil, errs.Wrap(errs.CodeParse, err)
	}
	return &safety, nil
}

func (a *assembler) typeDefinition(s *resolve.Scope, key string, td *parser.TypeDef) (ir.TypeDefinition, error) {
	name, err := s.TypeName(key, td.Package)
	if err != nil {
		return nil, err
	}
	kind, err := td.Kind()
	if err != nil {
		return nil, errs.Wrap(errs.CodeParse, err)
	}
	docs := ir.NewDocumentation(td.Docs, nil)

	switch kind {
	case parser.TypeDefObject:
		fields, err := a.fields(s, name, td.Fields)
		if err != nil {
			return nil, err
		}
		return &ir.ObjectDefinition{Name: name, Fields: fields, Docs: docs}, nil
	case parser.TypeDefUnion:
		members, err := a.fields(s, name, td.Union)
		if err != nil {
			return nil, err
		}
		return &ir.UnionDefinition{Name: name, Members: members, Docs: docs}, nil
	case parser.TypeDefEnum:
		enum := &ir.EnumDefinition{Name: name, Docs: docs}
		for _, v := range td.Values {
			enum.Values = append(enum.Values, ir.EnumValueDefinition{
				Value: v.Value,
				Docs:  ir.NewDocumentation(v.Docs, v.Deprecated),
			})
		}
		return enum, nil
	default:
		target, err := s.Resolve(td.Alias)
		if err != nil {
			return nil, err
		}
		safety, err := parseSafety(td.Safety)
		if err != nil {
			return nil, err
		}
		return &ir.AliasDefinition{Name: name, Alias: target, Safety: safety, Docs: docs}, nil
	}
}

func (a *assembler) fields(s *resolve.Scope, owner ir.TypeName, m *parser.OrderedMap[parser.FieldDef]) ([]ir.FieldDefinition, error) {
	if m == nil {
		return nil, nil
	}
	fields := make([]ir.FieldDefinition, 0, m.Len())
	for _, e := range m.Entries {
		f, err := a.field(s, owner, e.Key, &e.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (a *assembler) field(s *resolve.Scope, owner ir.TypeName, key string, fd *parser.FieldDef) (ir.FieldDefinition, error) {
	name, err := names.NewFieldName(key)
	if err != nil {
		return ir.FieldDefinition{}, err
	}
	if !name.IsCanonical() {
		msg := fmt.Sprintf("field %s.%s should be lowerCamelCase (%s)", owner.Name, key, name.Normalized())
		if err := a.warn(WarnFieldName, owner, msg, slog.String("field", key), slog.String("case", name.Case().String())); err != nil {
			return ir.FieldDefinition{}, err
		}
	}
	t, err := s.Resolve(fd.Type)
	if err != nil {
		return ir.FieldDefinition{}, fmt.Errorf("field %s: %w", key, err)
	}
	safety, err := parseSafety(fd.Safety)
	if err != nil {
		return ir.FieldDefinition{}, err
	}
	return ir.FieldDefinition{
		Name:   name,
		Type:   t,
		Docs:   ir.NewDocumentation(fd.Docs, fd.Deprecated),
		Safety: safety,
	}, nil
}

func (a *assembler) errorDefinition(s *resolve.Scope, key string, ed *parser.ErrorDef) (ir.ErrorDefinition, error) {
	name, err := s.TypeName(key, ed.Package)
	if err != nil {
		return ir.ErrorDefinition{}, err
	}
	ns, err := names.NewErrorNamespace(ed.Namespace)
	if err != nil {
		return ir.ErrorDefinition{}, err
	}
	code, err := names.NewErrorCode(ed.Code)
	if err != nil {
		return ir.ErrorDefinition{}, err
	}
	safeArgs, err := a.fields(s, name, &ed.SafeArgs)
	if err != nil {
		return ir.ErrorDefinition{}, err
	}
	unsafeArgs, err := a.fields(s, name, &ed.UnsafeArgs)
	if err != nil {
		return ir.ErrorDefinition{}, err
	}
	return ir.ErrorDefinition{
		Name:       name,
		Namespace:  ns,
		Code:       code,
		SafeArgs:   safeArgs,
		UnsafeArgs: unsafeArgs,
		Docs:       ir.NewDocumentation(ed.Docs, nil),
	}, nil
}

// parseAuth parses "none", "header" or "cookie:NAME". Empty means none.
func parseAuth(s string) (*ir.AuthType, error) {
	switch {
	case s == "" || s == "none":
		return nil, nil
	case s == "header":
		return ir.HeaderAuth(), nil
	case strings.HasPrefix(s, "cookie:") && len(s) > len("cookie:"):
		return ir.CookieAuth(strings.TrimPrefix(s, "cookie:")), nil
	}
	return nil, errs.Errorf(errs.CodeParse, "invalid auth %q: must be none, header, or cookie:<name>", s)
}

func (a *assembler) service(s *resolve.Scope, key string, sd *parser.ServiceDef) (ir.ServiceDefinition, error) {
	name, err := s.TypeName(key, sd.Package)
	if err != nil {
		return ir.ServiceDefinition{}, err
	}
	base := sd.BasePath
	if base == "" {
		base = "/"
	}
	if _, err := httppath.Parse(base); err != nil {
		return ir.ServiceDefinition{}, err
	}
	auth, err := parseAuth(sd.DefaultAuth)
	if err != nil {
		return ir.ServiceDefinition{}, err
	}
	svc := ir.ServiceDefinition{
		Name:        name,
		DisplayName: sd.Name,
		BasePath:    base,
		DefaultAuth: auth,
		Docs:        ir.NewDocumentation(sd.Docs, nil),
	}
	for _, e := range sd.Endpoints.Entries {
		ep, err := a.endpoint(s, &svc, e.Key, &e.Value)
		if err != nil {
			return ir.ServiceDefinition{}, fmt.Errorf("endpoint %s: %w", e.Key, err)
		}
		svc.Endpoints = append(svc.Endpoints, ep)
	}
	return svc, nil
}

func (a *assembler) endpoint(s *resolve.Scope, svc *ir.ServiceDefinition, key string, ed *parser.EndpointDef) (ir.EndpointDefinition, error) {
	name, err := names.NewEndpointName(key)
	if err != nil {
		return ir.EndpointDefinition{}, err
	}
	method, rawPath, ok := strings.Cut(strings.TrimSpace(ed.HTTP), " ")
	if !ok {
		return ir.EndpointDefinition{}, errs.Errorf(errs.CodeParse, "http %q must be of the form \"METHOD /path\"", ed.HTTP)
	}
	path, err := httppath.Join(svc.BasePath, strings.TrimSpace(rawPath))
	if err != nil {
		return ir.EndpointDefinition{}, err
	}
	metrics.CountHTTPMethod(ir.HTTPMethod(method))
	metrics.ObservePathTemplateVars(len(path.Vars()))

	ep := ir.EndpointDefinition{
		Name:   name,
		Method: ir.HTTPMethod(method),
		Path:   path.String(),
		Auth:   svc.DefaultAuth,
		Tags:   ed.Tags,
		Docs:   ir.NewDocumentation(ed.Docs, ed.Deprecated),
	}
	if ed.Auth != nil {
		if ep.Auth, err = parseAuth(*ed.Auth); err != nil {
			return ir.EndpointDefinition{}, err
		}
	}

	vars := make(map[string]bool)
	for _, v := range path.Vars() {
		vars[v] = true
	}
	for _, e := range ed.Args.Entries {
		arg, err := a.argument(s, svc.Name, vars, e.Key, &e.Value)
		if err != nil {
			return ir.EndpointDefinition{}, fmt.Errorf("arg %s: %w", e.Key, err)
		}
		ep.Args = append(ep.Args, arg)
	}

	if ed.Returns != "" {
		if ep.Returns, err = s.Resolve(ed.Returns); err != nil {
			return ir.EndpointDefinition{}, err
		}
	}
	if ed.ReturnSafety != nil {
		if ep.ReturnSafety, err = parseSafety(*ed.ReturnSafety); err != nil {
			return ir.EndpointDefinition{}, err
		}
	}
	if ep.Markers, err = resolveAll(s, ed.Markers); err != nil {
		return ir.EndpointDefinition{}, err
	}
	for _, ref := range ed.Errors {
		tn, err := s.ErrorName(ref)
		if err != nil {
			return ir.EndpointDefinition{}, err
		}
		ep.Errors = append(ep.Errors, tn)
	}
	return ep, nil
}

func resolveAll(s *resolve.Scope, exprs []string) ([]ir.Type, error) {
	var out []ir.Type
	for _, expr := range exprs {
		t, err := s.Resolve(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// argument builds one endpoint argument. Without an explicit param-type an
// argument is a path parameter if the path template names it and the body
// otherwise. Query and header ids default to the argument name.
func (a *assembler) argument(s *resolve.Scope, owner ir.TypeName, vars map[string]bool, key string, ad *parser.ArgDef) (ir.ArgumentDefinition, error) {
	name, err := names.NewArgumentName(key)
	if err != nil {
		return ir.ArgumentDefinition{}, err
	}
	t, err := s.Resolve(ad.Type)
	if err != nil {
		return ir.ArgumentDefinition{}, err
	}
	safety, err := parseSafety(ad.Safety)
	if err != nil {
		return ir.ArgumentDefinition{}, err
	}
	markers, err := resolveAll(s, ad.Markers)
	if err != nil {
		return ir.ArgumentDefinition{}, err
	}

	id := ad.ParamID
	if id == "" {
		id = key
	}
	var pt ir.ParameterType
	switch ad.ParamType {
	case "", "auto":
		if vars[key] {
			pt = ir.PathParam()
		} else {
			pt = ir.BodyParam()
		}
	case "path":
		pt = ir.PathParam()
	case "body":
		pt = ir.BodyParam()
	case "query":
		pid, err := names.NewParameterID(names.ParamQuery, id)
		if err != nil {
			return ir.ArgumentDefinition{}, err
		}
		if !pid.IsCanonical() {
			msg := fmt.Sprintf("query param id %s of argument %s should be lowerCamelCase", id, key)
			if err := a.warn(WarnQueryParamID, owner, msg, slog.String("param", id)); err != nil {
				return ir.ArgumentDefinition{}, err
			}
		}
		pt = ir.QueryParam(pid)
	case "header":
		pid, err := names.NewParameterID(names.ParamHeader, id)
		if err != nil {
			return ir.ArgumentDefinition{}, err
		}
		pt = ir.HeaderParam(pid)
	default:
		return ir.ArgumentDefinition{}, errs.Errorf(errs.CodeParse, "unknown param-type %q", ad.ParamType)
	}

	return ir.ArgumentDefinition{
		Name:      name,
		Type:      t,
		ParamType: pt,
		Safety:    safety,
		Markers:   markers,
		Tags:      ad.Tags,
		Docs:      ir.NewDocumentation(ad.Docs, nil),
	}, nil
}

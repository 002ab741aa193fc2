package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

func tn(name string) ir.TypeName { return ir.MustTypeName(name, "com.example") }

func field(name string, t ir.Type) ir.FieldDefinition {
	return ir.FieldDefinition{Name: names.MustFieldName(name), Type: t}
}

func object(name string, fields ...ir.FieldDefinition) *ir.ObjectDefinition {
	return &ir.ObjectDefinition{Name: tn(name), Fields: fields}
}

func alias(name string, t ir.Type) *ir.AliasDefinition {
	return &ir.AliasDefinition{Name: tn(name), Alias: t}
}

func enum(name string, values ...string) *ir.EnumDefinition {
	e := &ir.EnumDefinition{Name: tn(name)}
	for _, v := range values {
		e.Values = append(e.Values, ir.EnumValueDefinition{Value: v})
	}
	return e
}

func ref(name string) *ir.ReferenceType { return ir.Ref(tn(name)) }

func arg(name string, t ir.Type, p ir.ParameterType) ir.ArgumentDefinition {
	return ir.ArgumentDefinition{Name: names.MustArgumentName(name), Type: t, ParamType: p}
}

func query(id string) ir.ParameterType {
	return ir.QueryParam(names.MustParameterID(names.ParamQuery, id))
}

func header(id string) ir.ParameterType {
	return ir.HeaderParam(names.MustParameterID(names.ParamHeader, id))
}

func endpoint(name string, method ir.HTTPMethod, path string, args ...ir.ArgumentDefinition) ir.EndpointDefinition {
	return ir.EndpointDefinition{Name: names.MustEndpointName(name), Method: method, Path: path, Args: args}
}

func service(name string, eps ...ir.EndpointDefinition) ir.ServiceDefinition {
	return ir.ServiceDefinition{Name: tn(name), BasePath: "/", Endpoints: eps}
}

func definition(types ...ir.TypeDefinition) *ir.Definition {
	return &ir.Definition{Version: ir.SupportedVersion, Types: types}
}

// requireRule asserts that err is a failure of the named rule whose message
// contains msg.
func requireRule(t *testing.T, err error, rule, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, rule, errs.RuleOf(err), "error: %v", err)
	assert.Contains(t, err.Error(), msg)
}

func TestRule_Validate(t *testing.T) {
	ctx := NewContext(definition(), Options{})

	plain := Rule[int]{Name: "Plain", Check: func(*Context, int) error { return fail("bad %d", 1) }}
	err := plain.Validate(ctx, 0)
	assert.True(t, errs.HasCode(err, errs.CodeValidation))
	assert.Equal(t, "Plain", errs.RuleOf(err))
	assert.Equal(t, "validation [Plain]: bad 1", err.Error())

	coded := Rule[int]{Name: "Coded", Check: func(*Context, int) error {
		return errs.New(errs.CodeRecursiveType, "cycle", "Foo")
	}}
	err = coded.Validate(ctx, 0)
	assert.True(t, errs.HasCode(err, errs.CodeRecursiveType))
	assert.Equal(t, "Coded", errs.RuleOf(err))

	tagged := Rule[int]{Name: "Outer", Check: func(*Context, int) error {
		return errs.Validation("Inner", "nested")
	}}
	assert.Equal(t, "Inner", errs.RuleOf(tagged.Validate(ctx, 0)))

	ok := Rule[int]{Name: "Ok", Check: func(*Context, int) error { return nil }}
	assert.NoError(t, ok.Validate(ctx, 0))
}

func TestRule_ValidateKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	r := Rule[int]{Name: "Wrapped", Check: func(*Context, int) error { return cause }}
	err := r.Validate(NewContext(definition(), Options{}), 0)
	assert.ErrorIs(t, err, cause)
}

func TestContext_Dealias(t *testing.T) {
	def := definition(
		alias("Outer", ref("Inner")),
		alias("Inner", ir.Optional(ir.String())),
		enum("Color", "RED"),
	)
	ctx := NewContext(def, Options{})

	d := ctx.Dealias(ref("Outer"))
	assert.Nil(t, d.Definition)
	assert.Equal(t, "optional<string>", d.Type.String())

	d = ctx.Dealias(ref("Color"))
	assert.True(t, d.IsEnum())
	assert.Nil(t, d.Type)

	d = ctx.Dealias(ir.Integer())
	assert.True(t, d.IsPrimitive(ir.PrimitiveInteger))

	missing := ref("Missing")
	assert.Same(t, missing, ctx.Dealias(missing).Type)

	assert.Equal(t, def.Types[2], ctx.Lookup(tn("Color")))
}

func TestValidate_Valid(t *testing.T) {
	def := definition(
		object("Foo",
			field("selfOptional", ir.Optional(ref("Foo"))),
			field("selfList", ir.List(ref("Foo"))),
			field("lookup", ir.Map(ref("Id"), ref("Color"))),
		),
		alias("Id", ir.String()),
		enum("Color", "RED", "DARK_BLUE"),
	)
	def.Errors = []ir.ErrorDefinition{{
		Name:      tn("FooNotFound"),
		Namespace: names.MustErrorNamespace("Foo"),
		Code:      names.ErrorNotFound,
		SafeArgs:  []ir.FieldDefinition{field("id", ref("Id"))},
	}}
	get := endpoint("getFoo", ir.MethodGet, "/foo/{id}",
		arg("id", ref("Id"), ir.PathParam()),
		arg("colors", ir.Set(ref("Color")), query("color")),
		arg("trace", ir.Optional(ir.String()), header("X-Trace-Id")),
	)
	get.Returns = ref("Foo")
	get.Errors = []ir.TypeName{tn("FooNotFound")}
	put := endpoint("putFoo", ir.MethodPut, "/foo/{id}",
		arg("id", ref("Id"), ir.PathParam()),
		arg("body", ref("Foo"), ir.BodyParam()),
	)
	def.Services = []ir.ServiceDefinition{service("FooService", get, put)}

	require.NoError(t, Validate(def, Options{}))
	// Validation is a pure function of the graph.
	require.NoError(t, Validate(def, Options{}))
}

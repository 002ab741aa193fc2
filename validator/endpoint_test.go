package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/names"
)

func endpointTypes() []ir.TypeDefinition {
	return []ir.TypeDefinition{
		object("Item"),
		alias("ItemId", ir.String()),
		alias("OptionalBlob", ir.Optional(ir.Binary())),
		enum("Color", "RED", "GREEN"),
	}
}

func TestEndpointRules(t *testing.T) {
	tests := []struct {
		name string
		ep   ir.EndpointDefinition
		rule string
		msg  string
	}{
		{
			name: "get with body",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo", arg("body", ir.String(), ir.BodyParam())),
			rule: "NoGetBody",
			msg:  "Endpoint 'getFoo{http: GET /foo}' cannot be a GET and contain a body",
		},
		{
			name: "multiple bodies",
			ep: endpoint("putFoo", ir.MethodPut, "/foo",
				arg("a", ir.String(), ir.BodyParam()), arg("b", ir.String(), ir.BodyParam())),
			rule: "SingleBodyParam",
			msg:  "cannot have multiple body parameters: [a, b]",
		},
		{
			name: "missing path param",
			ep:   endpoint("getFoo", ir.MethodGet, "/a/{id}"),
			rule: "PathParam",
			msg:  "Path parameters [id] defined path template but not present in endpoint",
		},
		{
			name: "extra path param",
			ep:   endpoint("getFoo", ir.MethodGet, "/a", arg("foo", ir.String(), ir.PathParam())),
			rule: "PathParam",
			msg:  "Path parameters defined in endpoint but not present in path template: [foo]",
		},
		{
			name: "duplicate path param",
			ep: endpoint("getFoo", ir.MethodGet, "/a/{id}",
				arg("id", ir.String(), ir.PathParam()), arg("id", ir.String(), ir.PathParam())),
			rule: "PathParam",
			msg:  `Path parameter with identifier "id" is defined multiple times`,
		},
		{
			name: "malformed path",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo/"),
			rule: "HttpPath",
			msg:  "Conjure paths must not end with a '/'",
		},
		{
			name: "unsupported method",
			ep:   endpoint("patchFoo", "PATCH", "/foo"),
			rule: "NoUnsupportedHttpMethod",
			msg:  `unsupported HTTP method "PATCH"`,
		},
		{
			name: "binary query param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo", arg("data", ir.Optional(ir.Binary()), query("data"))),
			rule: "NonBodyArgumentType",
			msg:  "Non body parameters cannot contain the 'binary' type. Parameter 'data'",
		},
		{
			name: "any path param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo/{id}", arg("id", ir.Any(), ir.PathParam())),
			rule: "NonBodyArgumentType",
			msg:  "cannot contain the 'any' type",
		},
		{
			name: "bearertoken query param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo", arg("token", ir.List(ir.BearerToken()), query("token"))),
			rule: "NoBearerTokenPathOrQueryParams",
			msg:  "Path or query parameters of type 'bearertoken' are not allowed",
		},
		{
			name: "object path param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo/{item}", arg("item", ref("Item"), ir.PathParam())),
			rule: "NoComplexPathParams",
			msg:  `Path parameters must be primitives or aliases: "item" is not allowed`,
		},
		{
			name: "list path param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo/{ids}", arg("ids", ir.List(ir.String()), ir.PathParam())),
			rule: "NoComplexPathParams",
			msg:  `"ids" is not allowed`,
		},
		{
			name: "list header param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo", arg("tags", ir.List(ir.String()), header("X-Tags"))),
			rule: "NoComplexHeaderParams",
			msg:  `Header parameters must be enums, primitives, aliases or optional primitive: "tags"`,
		},
		{
			name: "map query param",
			ep:   endpoint("getFoo", ir.MethodGet, "/foo", arg("m", ir.Map(ir.String(), ir.String()), query("m"))),
			rule: "NoComplexQueryParams",
			msg:  "Query parameters must be enums or primitives when de-aliased",
		},
		{
			name: "nested list query param",
			ep: endpoint("getFoo", ir.MethodGet, "/foo",
				arg("m", ir.List(ir.List(ir.String())), query("m"))),
			rule: "NoComplexQueryParams",
			msg:  "'m' is not allowed on endpoint",
		},
		{
			name: "optional binary body through alias",
			ep:   endpoint("upload", ir.MethodPost, "/upload", arg("blob", ref("OptionalBlob"), ir.BodyParam())),
			rule: "NoOptionalBinaryBody",
			msg:  "Endpoint BODY argument must not be optional<binary> or alias thereof",
		},
		{
			name: "argument name",
			ep:   endpoint("upload", ir.MethodPost, "/upload", arg("fooB", ir.String(), ir.BodyParam())),
			rule: "ParameterName",
			msg:  "Parameter names in endpoint paths and service definitions must match pattern",
		},
		{
			name: "missing header id",
			ep: endpoint("getFoo", ir.MethodGet, "/foo",
				arg("trace", ir.String(), ir.ParameterType{Kind: names.ParamHeader})),
			rule: "ParamId",
			msg:  "must match pattern",
		},
		{
			name: "valid parameters",
			ep: endpoint("getFoo", ir.MethodGet, "/foo/{id}/{rest:.+}",
				arg("id", ref("ItemId"), ir.PathParam()),
				arg("rest", ir.String(), ir.PathParam()),
				arg("color", ref("Color"), query("color")),
				arg("colors", ir.Optional(ref("Color")), query("extra-colors")),
				arg("ids", ir.List(ref("ItemId")), query("item_ids")),
				arg("token", ir.BearerToken(), header("Authorization")),
				arg("trace", ir.Optional(ir.String()), header("X-Trace-Id")),
				arg("kind", ref("Color"), header("X-Kind")),
			),
		},
		{
			name: "binary body",
			ep:   endpoint("upload", ir.MethodPost, "/upload", arg("blob", ir.Binary(), ir.BodyParam())),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(definition(endpointTypes()...), Options{})
			err := runAll(ctx, EndpointRules, &tt.ep)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			requireRule(t, err, tt.rule, tt.msg)
		})
	}
}

func TestPathParam_Names(t *testing.T) {
	ep := endpoint("getFoo", ir.MethodGet, "/a/{b}/{a}")
	err := checkPathParams(NewContext(definition(), Options{}), &ep)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"a", "b"}, e.Names)
}

func TestNoDuplicateEndpointErrors(t *testing.T) {
	ep := endpoint("getFoo", ir.MethodGet, "/foo")
	ep.Errors = []ir.TypeName{tn("NotFound"), tn("Conflict"), tn("NotFound")}
	requireRule(t, runAll(NewContext(definition(), Options{}), EndpointRules, &ep),
		"NoDuplicateEndpointErrors", "declares error com.example.NotFound more than once")
}

func TestServiceRules(t *testing.T) {
	tests := []struct {
		name string
		svc  ir.ServiceDefinition
		rule string
		msg  string
	}{
		{
			name: "path collision",
			svc: service("FooService",
				endpoint("getY", ir.MethodGet, "/a/{y}", arg("y", ir.String(), ir.PathParam())),
				endpoint("getX", ir.MethodGet, "/a/{x}", arg("x", ir.String(), ir.PathParam())),
			),
			rule: "UniquePathMethods",
			msg:  `Endpoint "GET /a/{arg}" is defined by multiple endpoints: getX, getY`,
		},
		{
			name: "regex collision",
			svc: service("FooService",
				endpoint("getX", ir.MethodGet, "/a/{x:.+}", arg("x", ir.String(), ir.PathParam())),
				endpoint("getY", ir.MethodGet, "/a/{y}", arg("y", ir.String(), ir.PathParam())),
			),
			rule: "UniquePathMethods",
			msg:  "defined by multiple endpoints: getX, getY",
		},
		{
			name: "same path different methods",
			svc: service("FooService",
				endpoint("getX", ir.MethodGet, "/a/{x}", arg("x", ir.String(), ir.PathParam())),
				endpoint("deleteX", ir.MethodDelete, "/a/{x}", arg("x", ir.String(), ir.PathParam())),
			),
		},
		{
			name: "retrofit suffix",
			svc:  service("FooRetrofit"),
			rule: "IllegalServiceSuffix",
			msg:  "Service name must not end in 'Retrofit'",
		},
		{
			name: "bad base path",
			svc:  ir.ServiceDefinition{Name: tn("FooService"), BasePath: "foo"},
			rule: "HttpPath",
			msg:  "Conjure paths must be absolute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runAll(NewContext(definition(), Options{}), ServiceRules, &tt.svc)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			requireRule(t, err, tt.rule, tt.msg)
		})
	}
}

func TestValidate_PathCollisionNames(t *testing.T) {
	def := definition()
	def.Services = []ir.ServiceDefinition{service("FooService",
		endpoint("getX", ir.MethodGet, "/a/{x}", arg("x", ir.String(), ir.PathParam())),
		endpoint("getY", ir.MethodGet, "/a/{y}", arg("y", ir.String(), ir.PathParam())),
	)}

	var e *errs.Error
	require.ErrorAs(t, Validate(def, Options{}), &e)
	assert.Equal(t, "UniquePathMethods", e.Rule)
	assert.Equal(t, []string{"getX", "getY"}, e.Names)
}

func TestValidate_PathCollisionAcrossServices(t *testing.T) {
	def := definition()
	def.Services = []ir.ServiceDefinition{
		service("FooService", endpoint("getX", ir.MethodGet, "/a/{x}", arg("x", ir.String(), ir.PathParam()))),
		service("BarService", endpoint("getY", ir.MethodGet, "/a/{y}", arg("y", ir.String(), ir.PathParam()))),
	}

	var e *errs.Error
	require.ErrorAs(t, Validate(def, Options{}), &e)
	assert.Equal(t, "UniquePathMethods", e.Rule)
	assert.Equal(t, `Endpoint "GET /a/{arg}" is defined by multiple endpoints: BarService.getY, FooService.getX`, e.Message)
	assert.Equal(t, []string{"BarService.getY", "FooService.getX"}, e.Names)

	def.Services[1].Endpoints[0].Method = ir.MethodPut
	assert.NoError(t, Validate(def, Options{}))
}

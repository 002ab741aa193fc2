package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/conjure/names"
)

func sampleDefinition() *Definition {
	return &Definition{
		Version: SupportedVersion,
		Types: []TypeDefinition{
			&ObjectDefinition{
				Name: fooName,
				Fields: []FieldDefinition{
					{Name: names.MustFieldName("bar"), Type: Optional(Ref(barName))},
				},
			},
			&EnumDefinition{Name: barName, Values: []EnumValueDefinition{{Value: "A"}, {Value: "B"}}},
		},
		Errors: []ErrorDefinition{{
			Name:      MustTypeName("NotFound", "com.example"),
			Namespace: names.MustErrorNamespace("Example"),
			Code:      names.ErrorNotFound,
			SafeArgs:  []FieldDefinition{{Name: names.MustFieldName("id"), Type: UUID()}},
		}},
		Services: []ServiceDefinition{{
			Name:     MustTypeName("FooService", "com.example"),
			BasePath: "/foo",
			Endpoints: []EndpointDefinition{{
				Name:   names.MustEndpointName("getFoo"),
				Method: MethodGet,
				Path:   "/foo/{id}",
				Auth:   HeaderAuth(),
				Args: []ArgumentDefinition{
					{Name: names.MustArgumentName("id"), Type: UUID(), ParamType: PathParam()},
				},
				Returns: Ref(fooName),
			}},
		}},
	}
}

func TestDefinition_Find(t *testing.T) {
	d := sampleDefinition()

	assert.Equal(t, DefinitionObject, d.FindType(fooName).DefinitionKind())
	assert.Nil(t, d.FindType(MustTypeName("Missing", "com.example")))
	assert.NotNil(t, d.FindError(MustTypeName("NotFound", "com.example")))
	assert.Nil(t, d.FindError(fooName))

	svc := d.FindService("FooService")
	require.NotNil(t, svc)
	ep := svc.FindEndpoint("getFoo")
	require.NotNil(t, ep)
	assert.Equal(t, "getFoo{http: GET /foo/{id}}", ep.Describe())
	assert.Nil(t, svc.FindEndpoint("missing"))
	assert.Nil(t, d.FindService("Missing"))

	idx := d.TypeIndex()
	assert.Len(t, idx, 2)
	assert.Equal(t, d.Types[1], idx[barName])
}

func TestErrorDefinition_Args(t *testing.T) {
	e := ErrorDefinition{
		SafeArgs:   []FieldDefinition{{Name: names.MustFieldName("a")}},
		UnsafeArgs: []FieldDefinition{{Name: names.MustFieldName("b")}},
	}
	args := e.Args()
	require.Len(t, args, 2)
	assert.Equal(t, "a", args[0].Name.String())
	assert.Equal(t, "b", args[1].Name.String())
}

func TestAuthType_String(t *testing.T) {
	var none *AuthType
	assert.Equal(t, "none", none.String())
	assert.Equal(t, "header", HeaderAuth().String())
	assert.Equal(t, "cookie:SESSION", CookieAuth("SESSION").String())
}

func TestMarshalIndent(t *testing.T) {
	out, err := MarshalIndent(sampleDefinition())
	require.NoError(t, err)
	s := string(out)

	for _, want := range []string{
		`"kind": "object"`,
		`"kind": "enum"`,
		`"kind": "optional"`,
		`"kind": "reference"`,
		`"primitive": "uuid"`,
		`"type": "path"`,
		`"httpMethod": "GET"`,
		`"code": "NOT_FOUND"`,
		`"fieldName": "bar"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("MarshalIndent output missing %s:\n%s", want, s)
		}
	}
}

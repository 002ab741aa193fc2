package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/broady/conjure/internal/errs"
)

const sample = `
types:
  imports:
    Uri:
      base-type: string
      external:
        java: java.net.URI
  definitions:
    default-package: com.example.api
    objects:
      Zeta:
        fields:
          name: string
          alias-name:
            type: optional<string>
            docs: Legacy name.
            safety: safe
      Alpha:
        values:
          - ONE
          - value: TWO
            docs: Second.
      Choice:
        union:
          first: string
          second: integer
      Id:
        alias: uuid
        safety: safe
    errors:
      NotFound:
        namespace: Example
        code: NOT_FOUND
        safe-args:
          id: Id
services:
  ItemService:
    name: Item Service
    package: com.example.service
    base-path: /items
    default-auth: header
    endpoints:
      getItem:
        http: GET /{id}
        args:
          id: Id
          filter:
            type: optional<string>
            param-type: query
            param-id: f
        returns: Zeta
      putItem:
        http: PUT /{id}
        args:
          id: Id
          body: Zeta
`

func TestParse_PreservesOrder(t *testing.T) {
	f, err := Parse("sample.yml", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "com.example.api", f.Types.Definitions.DefaultPackage)
	assert.Equal(t, []string{"Zeta", "Alpha", "Choice", "Id"}, f.Types.Definitions.Objects.Keys())

	zeta, ok := f.Types.Definitions.Objects.Get("Zeta")
	require.True(t, ok)
	kind, err := zeta.Kind()
	require.NoError(t, err)
	assert.Equal(t, TypeDefObject, kind)
	assert.Equal(t, []string{"name", "alias-name"}, zeta.Fields.Keys())

	aliasName, _ := zeta.Fields.Get("alias-name")
	assert.Equal(t, "optional<string>", aliasName.Type)
	assert.Equal(t, "Legacy name.", aliasName.Docs)
	assert.Equal(t, "safe", aliasName.Safety)

	alpha, _ := f.Types.Definitions.Objects.Get("Alpha")
	require.Len(t, alpha.Values, 2)
	assert.Equal(t, "ONE", alpha.Values[0].Value)
	assert.Equal(t, "Second.", alpha.Values[1].Docs)

	uri, ok := f.Types.Imports.Get("Uri")
	require.True(t, ok)
	assert.Equal(t, "java.net.URI", uri.External.Java)

	svc, ok := f.Services.Get("ItemService")
	require.True(t, ok)
	assert.Equal(t, "/items", svc.BasePath)
	assert.Equal(t, []string{"getItem", "putItem"}, svc.Endpoints.Keys())
	get, _ := svc.Endpoints.Get("getItem")
	assert.Equal(t, []string{"id", "filter"}, get.Args.Keys())
	filter, _ := get.Args.Get("filter")
	assert.Equal(t, "query", filter.ParamType)
	assert.Equal(t, "f", filter.ParamID)
}

func TestParse_DuplicateKey(t *testing.T) {
	src := `
types:
  definitions:
    default-package: com.example
    objects:
      Foo:
        alias: string
      Foo:
        alias: integer
`
	_, err := Parse("dup.yml", []byte(src))
	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup), "error = %v", err)
	assert.Equal(t, "Foo", dup.Key)
	assert.Equal(t, 6, dup.FirstLine)
	assert.Equal(t, 8, dup.Line)
	assert.True(t, errs.HasCode(err, errs.CodeParse))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing http",
			src: `
services:
  S:
    endpoints:
      foo:
        returns: string
`,
			want: "services S.foo: http is required",
		},
		{
			name: "bad param type",
			src: `
services:
  S:
    endpoints:
      foo:
        http: GET /foo
        args:
          bar:
            type: string
            param-type: cookie
`,
			want: "param-type must be one of",
		},
		{
			name: "two variants",
			src: `
types:
  definitions:
    objects:
      Foo:
        alias: string
        values: [A]
`,
			want: "must declare exactly one of",
		},
		{
			name: "error missing namespace",
			src: `
types:
  definitions:
    errors:
      Bad:
        code: INTERNAL
`,
			want: "errors Bad: namespace is required",
		},
		{
			name: "field without type",
			src: `
types:
  definitions:
    objects:
      Foo:
        fields:
          bar:
            docs: no type
`,
			want: "objects Foo.bar: type is required",
		},
		{
			name: "not yaml",
			src:  "types: [",
			want: "bad.yml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.yml", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errs.HasCode(err, errs.CodeParse))
		})
	}
}

func TestLoadArchive(t *testing.T) {
	a := txtar.Parse([]byte(`
-- api/main.yml --
types:
  conjure-imports:
    common: ../common/common.yml
  definitions:
    default-package: com.example.api
    objects:
      Wrapper:
        fields:
          id: common.Id
-- common/common.yml --
types:
  conjure-imports:
    main: ../api/main.yml
  definitions:
    default-package: com.example.common
    objects:
      Id:
        alias: string
`))
	f, err := LoadArchive(a, "api/main.yml")
	require.NoError(t, err)
	common, ok := f.Imported["common"]
	require.True(t, ok)
	assert.Equal(t, "common/common.yml", common.Path)
	// Mutual imports share the same parsed file.
	assert.Same(t, f, common.Imported["main"])

	_, err = LoadArchive(a, "missing.yml")
	assert.True(t, errs.HasCode(err, errs.CodeParse))
}

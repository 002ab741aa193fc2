package ir

import json "github.com/goccy/go-json"

// JSON serialization support for IR types.
// All type expressions and named definitions include a "kind" field for
// type discrimination.

// MarshalJSON implements json.Marshaler for PrimitiveType.
func (t *PrimitiveType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string `json:"kind"`
		Primitive string `json:"primitive"`
	}{
		Kind:      "primitive",
		Primitive: t.Primitive.String(),
	})
}

// MarshalJSON implements json.Marshaler for OptionalType.
func (t *OptionalType) MarshalJSON() ([]byte, error) {
	return marshalItem("optional", t.Item)
}

// MarshalJSON implements json.Marshaler for ListType.
func (t *ListType) MarshalJSON() ([]byte, error) {
	return marshalItem("list", t.Item)
}

// MarshalJSON implements json.Marshaler for SetType.
func (t *SetType) MarshalJSON() ([]byte, error) {
	return marshalItem("set", t.Item)
}

func marshalItem(kind string, item Type) ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string `json:"kind"`
		ItemType Type   `json:"itemType"`
	}{
		Kind:     kind,
		ItemType: item,
	})
}

// MarshalJSON implements json.Marshaler for MapType.
func (t *MapType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string `json:"kind"`
		KeyType   Type   `json:"keyType"`
		ValueType Type   `json:"valueType"`
	}{
		Kind:      "map",
		KeyType:   t.Key,
		ValueType: t.Value,
	})
}

// MarshalJSON implements json.Marshaler for ReferenceType.
func (t *ReferenceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string   `json:"kind"`
		Name TypeName `json:"reference"`
	}{
		Kind: "reference",
		Name: t.Name,
	})
}

// MarshalJSON implements json.Marshaler for ExternalType.
func (t *ExternalType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string     `json:"kind"`
		Package  string     `json:"package"`
		Name     string     `json:"name"`
		Fallback Type       `json:"fallback"`
		Safety   *LogSafety `json:"safety,omitempty"`
	}{
		Kind:     "external",
		Package:  t.Package,
		Name:     t.Name,
		Fallback: t.Fallback,
		Safety:   t.Safety,
	})
}

// MarshalJSON implements json.Marshaler for ObjectDefinition.
func (d *ObjectDefinition) MarshalJSON() ([]byte, error) {
	type Alias ObjectDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "object",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for EnumDefinition.
func (d *EnumDefinition) MarshalJSON() ([]byte, error) {
	type Alias EnumDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "enum",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for UnionDefinition.
func (d *UnionDefinition) MarshalJSON() ([]byte, error) {
	type Alias UnionDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "union",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for AliasDefinition.
func (d *AliasDefinition) MarshalJSON() ([]byte, error) {
	type Alias AliasDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "alias",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for AuthType.
func (a *AuthType) MarshalJSON() ([]byte, error) {
	if a.Kind == AuthCookie {
		return json.Marshal(&struct {
			Type       string `json:"type"`
			CookieName string `json:"cookieName"`
		}{"cookie", a.CookieName})
	}
	return json.Marshal(&struct {
		Type string `json:"type"`
	}{"header"})
}

// MarshalIndent renders the definition as indented JSON.
func MarshalIndent(d *Definition) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

package ir

// OptionalType is a value that may be absent.
type OptionalType struct {
	typeBase
	Item Type
}

// Kind returns KindOptional.
func (t *OptionalType) Kind() Kind     { return KindOptional }
func (t *OptionalType) String() string { return "optional<" + t.Item.String() + ">" }

// Optional returns an OptionalType wrapping item.
func Optional(item Type) *OptionalType { return &OptionalType{Item: item} }

// ListType is an ordered collection.
type ListType struct {
	typeBase
	Item Type
}

// Kind returns KindList.
func (t *ListType) Kind() Kind     { return KindList }
func (t *ListType) String() string { return "list<" + t.Item.String() + ">" }

// List returns a ListType of item.
func List(item Type) *ListType { return &ListType{Item: item} }

// SetType is an unordered collection of distinct values.
type SetType struct {
	typeBase
	Item Type
}

// Kind returns KindSet.
func (t *SetType) Kind() Kind     { return KindSet }
func (t *SetType) String() string { return "set<" + t.Item.String() + ">" }

// Set returns a SetType of item.
func Set(item Type) *SetType { return &SetType{Item: item} }

// MapType is a key-value mapping.
type MapType struct {
	typeBase
	Key   Type
	Value Type
}

// Kind returns KindMap.
func (t *MapType) Kind() Kind { return KindMap }

func (t *MapType) String() string {
	return "map<" + t.Key.String() + ", " + t.Value.String() + ">"
}

// Map returns a MapType from key to value.
func Map(key, value Type) *MapType { return &MapType{Key: key, Value: value} }

// ReferenceType refers to a named definition in the graph.
type ReferenceType struct {
	typeBase
	Name TypeName
}

// Kind returns KindReference.
func (t *ReferenceType) Kind() Kind     { return KindReference }
func (t *ReferenceType) String() string { return t.Name.Name.String() }

// Ref returns a ReferenceType to name.
func Ref(name TypeName) *ReferenceType { return &ReferenceType{Name: name} }

// ExternalType refers to a type defined outside the graph. Generators that
// do not know the external type use Fallback instead. External names follow
// the conventions of their own language and are not validated.
type ExternalType struct {
	typeBase
	Package  string
	Name     string
	Fallback Type
	Safety   *LogSafety
}

// Kind returns KindExternal.
func (t *ExternalType) Kind() Kind     { return KindExternal }
func (t *ExternalType) String() string { return t.Package + "." + t.Name }

// External returns an ExternalType for pkg.name with the given fallback.
func External(pkg, name string, fallback Type) *ExternalType {
	return &ExternalType{Package: pkg, Name: name, Fallback: fallback}
}

// Walk calls fn for t and, while fn returns true, for every type nested in t
// in depth-first order. Reference edges are not followed.
func Walk(t Type, fn func(Type) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch t := t.(type) {
	case *OptionalType:
		Walk(t.Item, fn)
	case *ListType:
		Walk(t.Item, fn)
	case *SetType:
		Walk(t.Item, fn)
	case *MapType:
		Walk(t.Key, fn)
		Walk(t.Value, fn)
	case *ExternalType:
		Walk(t.Fallback, fn)
	}
}

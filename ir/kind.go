package ir

// Kind identifies the variant of a type expression.
type Kind int

const (
	KindPrimitive Kind = iota // Built-in primitive, including binary, any and datetime
	KindOptional              // optional<T>
	KindList                  // list<T>
	KindSet                   // set<T>
	KindMap                   // map<K, V>
	KindReference             // Reference to a named definition
	KindExternal              // Reference to a type defined outside the graph
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindOptional:
		return "Optional"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindReference:
		return "Reference"
	case KindExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// Type is a type expression. The set of implementations is closed.
type Type interface {
	// Kind returns the variant for type switching.
	Kind() Kind

	// String renders the type in source syntax, e.g. "optional<Foo>".
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}

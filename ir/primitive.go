package ir

// PrimitiveKind identifies a built-in type.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveInteger
	PrimitiveDouble
	PrimitiveBoolean
	PrimitiveSafeLong    // Integer in [-(2^53-1), 2^53-1]
	PrimitiveRID         // Resource identifier
	PrimitiveBearerToken // Always do-not-log
	PrimitiveUUID
	PrimitiveAny
	PrimitiveBinary
	PrimitiveDateTime
)

var primitiveNames = [...]string{
	PrimitiveString:      "string",
	PrimitiveInteger:     "integer",
	PrimitiveDouble:      "double",
	PrimitiveBoolean:     "boolean",
	PrimitiveSafeLong:    "safelong",
	PrimitiveRID:         "rid",
	PrimitiveBearerToken: "bearertoken",
	PrimitiveUUID:        "uuid",
	PrimitiveAny:         "any",
	PrimitiveBinary:      "binary",
	PrimitiveDateTime:    "datetime",
}

// String returns the source spelling of the primitive.
func (k PrimitiveKind) String() string {
	if int(k) < 0 || int(k) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[k]
}

// ParsePrimitiveKind looks up a primitive by its exact source spelling.
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	for k, name := range primitiveNames {
		if name == s {
			return PrimitiveKind(k), true
		}
	}
	return 0, false
}

// PrimitiveType is a built-in type.
type PrimitiveType struct {
	typeBase
	Primitive PrimitiveKind
}

// Kind returns KindPrimitive.
func (t *PrimitiveType) Kind() Kind { return KindPrimitive }

func (t *PrimitiveType) String() string { return t.Primitive.String() }

// Is reports whether t is the given primitive.
func (t *PrimitiveType) Is(k PrimitiveKind) bool { return t.Primitive == k }

// Primitive returns a PrimitiveType of the given kind.
func Primitive(k PrimitiveKind) *PrimitiveType { return &PrimitiveType{Primitive: k} }

func String() *PrimitiveType      { return Primitive(PrimitiveString) }
func Integer() *PrimitiveType     { return Primitive(PrimitiveInteger) }
func Double() *PrimitiveType      { return Primitive(PrimitiveDouble) }
func Boolean() *PrimitiveType     { return Primitive(PrimitiveBoolean) }
func SafeLong() *PrimitiveType    { return Primitive(PrimitiveSafeLong) }
func RID() *PrimitiveType         { return Primitive(PrimitiveRID) }
func BearerToken() *PrimitiveType { return Primitive(PrimitiveBearerToken) }
func UUID() *PrimitiveType        { return Primitive(PrimitiveUUID) }
func Any() *PrimitiveType         { return Primitive(PrimitiveAny) }
func Binary() *PrimitiveType      { return Primitive(PrimitiveBinary) }
func DateTime() *PrimitiveType    { return Primitive(PrimitiveDateTime) }

// IsPrimitiveKind reports whether t is the primitive k.
func IsPrimitiveKind(t Type, k PrimitiveKind) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.Primitive == k
}

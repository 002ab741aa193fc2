package ir

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned by UnsupportedTypeVisitor for every variant
// the embedding visitor does not override.
var ErrUnsupportedType = errors.New("unsupported type")

// TypeVisitor dispatches on the variant of a Type. Implementations that only
// care about some variants embed UnsupportedTypeVisitor.
type TypeVisitor[T any] interface {
	VisitPrimitive(*PrimitiveType) (T, error)
	VisitOptional(*OptionalType) (T, error)
	VisitList(*ListType) (T, error)
	VisitSet(*SetType) (T, error)
	VisitMap(*MapType) (T, error)
	VisitReference(*ReferenceType) (T, error)
	VisitExternal(*ExternalType) (T, error)
}

// Accept dispatches t to the matching method of v.
func Accept[T any](t Type, v TypeVisitor[T]) (T, error) {
	switch t := t.(type) {
	case *PrimitiveType:
		return v.VisitPrimitive(t)
	case *OptionalType:
		return v.VisitOptional(t)
	case *ListType:
		return v.VisitList(t)
	case *SetType:
		return v.VisitSet(t)
	case *MapType:
		return v.VisitMap(t)
	case *ReferenceType:
		return v.VisitReference(t)
	case *ExternalType:
		return v.VisitExternal(t)
	}
	var zero T
	return zero, fmt.Errorf("%w: %T", ErrUnsupportedType, t)
}

// UnsupportedTypeVisitor fails every variant with ErrUnsupportedType.
type UnsupportedTypeVisitor[T any] struct{}

func (UnsupportedTypeVisitor[T]) VisitPrimitive(t *PrimitiveType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitOptional(t *OptionalType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitList(t *ListType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitSet(t *SetType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitMap(t *MapType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitReference(t *ReferenceType) (T, error) {
	return unsupported[T](t)
}
func (UnsupportedTypeVisitor[T]) VisitExternal(t *ExternalType) (T, error) {
	return unsupported[T](t)
}

func unsupported[T any](t Type) (T, error) {
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

type isPrimitiveOrReference struct{}

func (isPrimitiveOrReference) VisitPrimitive(t *PrimitiveType) (bool, error) {
	return !t.Is(PrimitiveBinary) && !t.Is(PrimitiveAny), nil
}
func (isPrimitiveOrReference) VisitOptional(*OptionalType) (bool, error)   { return false, nil }
func (isPrimitiveOrReference) VisitList(*ListType) (bool, error)           { return false, nil }
func (isPrimitiveOrReference) VisitSet(*SetType) (bool, error)             { return false, nil }
func (isPrimitiveOrReference) VisitMap(*MapType) (bool, error)             { return false, nil }
func (isPrimitiveOrReference) VisitReference(*ReferenceType) (bool, error) { return true, nil }
func (isPrimitiveOrReference) VisitExternal(*ExternalType) (bool, error)   { return true, nil }

// IsPrimitiveOrReference reports whether t is a primitive other than binary
// and any, a datetime, or a reference to a named or external type.
func IsPrimitiveOrReference(t Type) bool {
	ok, _ := Accept[bool](t, isPrimitiveOrReference{})
	return ok
}

type extractReference struct {
	UnsupportedTypeVisitor[*TypeName]
}

func (extractReference) VisitReference(t *ReferenceType) (*TypeName, error) {
	name := t.Name
	return &name, nil
}

// ExtractReference returns the referenced name if t is a direct reference.
// Container types yield no reference.
func ExtractReference(t Type) (TypeName, bool) {
	name, err := Accept[*TypeName](t, extractReference{})
	if err != nil || name == nil {
		return TypeName{}, false
	}
	return *name, true
}

// ExtractExternal returns t as an external type if it is one.
func ExtractExternal(t Type) (*ExternalType, bool) {
	e, ok := t.(*ExternalType)
	return e, ok
}

package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// TypeExpr is an unresolved type expression.
type TypeExpr interface {
	String() string
	typeExpr()
}

// PrimitiveExpr names a built-in type.
type PrimitiveExpr struct{ Name string }

// OptionalExpr is optional<Item>.
type OptionalExpr struct{ Item TypeExpr }

// ListExpr is list<Item>.
type ListExpr struct{ Item TypeExpr }

// SetExpr is set<Item>.
type SetExpr struct{ Item TypeExpr }

// MapExpr is map<Key, Value>.
type MapExpr struct{ Key, Value TypeExpr }

// LocalRef names a type defined or imported in the same file.
type LocalRef struct{ Name string }

// ForeignRef names a type in the file imported under Namespace.
type ForeignRef struct{ Namespace, Name string }

func (PrimitiveExpr) typeExpr() {}
func (OptionalExpr) typeExpr()  {}
func (ListExpr) typeExpr()      {}
func (SetExpr) typeExpr()       {}
func (MapExpr) typeExpr()       {}
func (LocalRef) typeExpr()      {}
func (ForeignRef) typeExpr()    {}

func (e PrimitiveExpr) String() string { return e.Name }
func (e OptionalExpr) String() string  { return "optional<" + e.Item.String() + ">" }
func (e ListExpr) String() string      { return "list<" + e.Item.String() + ">" }
func (e SetExpr) String() string       { return "set<" + e.Item.String() + ">" }
func (e MapExpr) String() string       { return "map<" + e.Key.String() + ", " + e.Value.String() + ">" }
func (e LocalRef) String() string      { return e.Name }
func (e ForeignRef) String() string    { return e.Namespace + "." + e.Name }

var (
	primitiveExprs = map[string]bool{
		"any": true, "bearertoken": true, "binary": true, "boolean": true,
		"datetime": true, "double": true, "integer": true, "rid": true,
		"safelong": true, "string": true, "uuid": true,
	}
	namespacePattern = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)
)

// ParseType parses a type expression such as "map<string, list<Foo>>".
func ParseType(s string) (TypeExpr, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("invalid type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *typeParser) args(n int) ([]TypeExpr, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var out []TypeExpr
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *typeParser) parse() (TypeExpr, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected a type name at offset %d", p.pos)
	}
	switch name {
	case "optional", "list", "set":
		a, err := p.args(1)
		if err != nil {
			return nil, err
		}
		switch name {
		case "optional":
			return OptionalExpr{Item: a[0]}, nil
		case "list":
			return ListExpr{Item: a[0]}, nil
		default:
			return SetExpr{Item: a[0]}, nil
		}
	case "map":
		a, err := p.args(2)
		if err != nil {
			return nil, err
		}
		return MapExpr{Key: a[0], Value: a[1]}, nil
	}
	if primitiveExprs[name] {
		return PrimitiveExpr{Name: name}, nil
	}
	if ns, local, ok := strings.Cut(name, "."); ok {
		if !namespacePattern.MatchString(ns) || local == "" || strings.Contains(local, ".") {
			return nil, fmt.Errorf("malformed reference %q", name)
		}
		return ForeignRef{Namespace: ns, Name: local}, nil
	}
	return LocalRef{Name: name}, nil
}

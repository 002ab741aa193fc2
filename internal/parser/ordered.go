package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a key that appears twice in one YAML mapping,
// with the positions of both occurrences.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Entry is one key-value pair of an OrderedMap.
type Entry[V any] struct {
	Key   string
	Value V
	Line  int
	Col   int
}

// OrderedMap is a YAML mapping that keeps source order. Decoding fails with
// a *DuplicateKeyError if a key repeats.
type OrderedMap[V any] struct {
	Entries []Entry[V] `validate:"dive"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *OrderedMap[V]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	first := make(map[string][2]int, len(n.Content)/2)
	m.Entries = make([]Entry[V], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if pos, dup := first[k.Value]; dup {
			return &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
		}
		first[k.Value] = [2]int{k.Line, k.Column}

		var val V
		if err := v.Decode(&val); err != nil {
			return fmt.Errorf("%s: %w", k.Value, err)
		}
		m.Entries = append(m.Entries, Entry[V]{Key: k.Value, Value: val, Line: k.Line, Col: k.Column})
	}
	return nil
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// Get returns the value for key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m != nil {
		for _, e := range m.Entries {
			if e.Key == key {
				return e.Value, true
			}
		}
	}
	var zero V
	return zero, false
}

// Keys returns the keys in source order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Set appends key or replaces its value. It is used by tests and the
// loader to build maps programmatically.
func (m *OrderedMap[V]) Set(key string, value V) {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			m.Entries[i].Value = value
			return
		}
	}
	m.Entries = append(m.Entries, Entry[V]{Key: key, Value: value})
}

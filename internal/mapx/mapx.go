// Package mapx implements the JSON-like tree that backs a session's context
// column: string leaves, ordered lists, and nested maps. The recursive merge
// rule for incoming updates is defined here once, so every write path shares
// the same semantics.
package mapx

// Value is a single node of the context tree. The closed set of
// implementations is String, List and Map; a nil Value round-trips as JSON
// null.
type Value interface{ isValue() }

// String is a leaf value. All user-collected fields are chat text, so
// numeric-looking input (years, phone numbers) is kept verbatim as a string.
type String string

// List is an ordered sequence of values.
type List []Value

// Map is a nested string-keyed mapping.
type Map map[string]Value

func (String) isValue() {}
func (List) isValue()   {}
func (Map) isValue()    {}

// Merge applies updates to m in place, one top-level key at a time: when the
// existing and incoming values are both maps their keys are merged
// recursively (incoming wins per key, untouched keys survive), otherwise the
// incoming value replaces the existing one wholesale. Lists always replace;
// appends are a caller concern.
//
// Incoming values are deep-copied on insert, so the caller's update tree is
// never aliased by the merged result.
func (m Map) Merge(updates Map) {
	for k, incoming := range updates {
		if existing, ok := m[k].(Map); ok {
			if nested, ok := incoming.(Map); ok {
				existing.Merge(nested)
				continue
			}
		}
		m[k] = CloneValue(incoming)
	}
}

// Clone returns a deep copy of m. Mutating the copy never affects m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies any tree node.
func CloneValue(v Value) Value {
	switch value := v.(type) {
	case Map:
		return value.Clone()
	case List:
		out := make(List, len(value))
		for i, item := range value {
			out[i] = CloneValue(item)
		}
		return out
	default:
		// String and nil are immutable.
		return v
	}
}

// GetMap returns the nested map stored under key, or false when the key is
// absent or holds a different kind of value.
func (m Map) GetMap(key string) (Map, bool) {
	v, ok := m[key].(Map)
	return v, ok
}

// GetList returns the list stored under key, or false when the key is absent
// or holds a different kind of value.
func (m Map) GetList(key string) (List, bool) {
	v, ok := m[key].(List)
	return v, ok
}

// GetString returns the string stored under key, or false when the key is
// absent or holds a different kind of value.
func (m Map) GetString(key string) (string, bool) {
	v, ok := m[key].(String)
	return string(v), ok
}

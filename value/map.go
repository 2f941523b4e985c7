// Package value implements the WZ format's uniform, JSON-serializable
// value tree: the lifted form of an image's object/property tree, built
// by Read and round-tripped through MarshalJSON/UnmarshalJSON.
package value

import "github.com/cespare/xxhash/v2"

// Map is an insertion-ordered string-keyed map, the backing store for an
// Object value. Lookups are accelerated by an xxhash-keyed index; the
// index never reorders or otherwise affects the canonical insertion order
// iteration (Range) or JSON serialization relies on.
type Map struct {
	keys []string
	vals []Value
	idx  map[uint64][]int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{idx: make(map[uint64][]int)}
}

// Set inserts or updates key's value. Updating an existing key preserves
// its original position in insertion order.
func (m *Map) Set(key string, v Value) {
	h := xxhash.Sum64String(key)
	for _, i := range m.idx[h] {
		if m.keys[i] == key {
			m.vals[i] = v
			return
		}
	}

	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
	m.idx[h] = append(m.idx[h], len(m.keys)-1)
}

// Get returns key's value and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	h := xxhash.Sum64String(key)
	for _, i := range m.idx[h] {
		if m.keys[i] == key {
			return m.vals[i], true
		}
	}

	return Value{}, false
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}

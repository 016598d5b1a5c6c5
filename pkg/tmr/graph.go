package tmr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned when a graph or entity payload is not a JSON object.
var ErrNotObject = errors.New("meaning graph must be a JSON object")

// Attrs holds one entity's attributes in document order.
type Attrs = orderedmap.OrderedMap[string, any]

// NewAttrs returns an empty attribute mapping.
func NewAttrs() *Attrs {
	return orderedmap.New[string, any]()
}

// Graph is a raw meaning graph: entity ids, in document order, mapped to
// their attributes. Top-level analysis scalars (total-preference,
// total-confidence) live alongside the entities, as does the
// rejected-words mapping.
//
// Entity values are *Attrs when the payload is an object, otherwise the
// decoded scalar.
type Graph struct {
	entries *orderedmap.OrderedMap[string, any]
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{entries: orderedmap.New[string, any]()}
}

// Set adds or replaces an entry. New keys are appended to the order.
func (g *Graph) Set(key string, value any) {
	if g.entries == nil {
		g.entries = orderedmap.New[string, any]()
	}
	g.entries.Set(key, value)
}

// Get returns the entry stored under key.
func (g *Graph) Get(key string) (any, bool) {
	if g == nil || g.entries == nil {
		return nil, false
	}
	return g.entries.Get(key)
}

// Len returns the number of top-level entries, reserved keys included.
func (g *Graph) Len() int {
	if g == nil || g.entries == nil {
		return 0
	}
	return g.entries.Len()
}

// Keys returns all top-level keys in document order.
func (g *Graph) Keys() []string {
	if g == nil || g.entries == nil {
		return nil
	}
	keys := make([]string, 0, g.entries.Len())
	for p := g.entries.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// EntityIDs returns the keys of all entities that receive a color: every
// top-level key except total-preference, total-confidence and
// rejected-words.
func (g *Graph) EntityIDs() []string {
	var ids []string
	for _, k := range g.Keys() {
		if !IsReservedGraphKey(k) {
			ids = append(ids, k)
		}
	}
	return ids
}

// attrs returns the attribute mapping of an entity, or nil when the entry
// is missing or not an object.
func (g *Graph) attrs(key string) *Attrs {
	v, ok := g.Get(key)
	if !ok {
		return nil
	}
	a, _ := v.(*Attrs)
	return a
}

// UnmarshalJSON decodes a graph, keeping the order of entities and of each
// entity's attributes. A null payload yields an empty graph.
func (g *Graph) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	g.entries = orderedmap.New[string, any]()
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		return ErrNotObject
	}

	top := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, top); err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}
	for p := top.Oldest(); p != nil; p = p.Next() {
		v, err := decodeEntry(p.Value)
		if err != nil {
			return fmt.Errorf("decode entity %q: %w", p.Key, err)
		}
		g.entries.Set(p.Key, v)
	}
	return nil
}

// MarshalJSON encodes the graph in its stored order.
func (g *Graph) MarshalJSON() ([]byte, error) {
	if g == nil || g.entries == nil {
		return []byte("{}"), nil
	}
	return g.entries.MarshalJSON()
}

func decodeEntry(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		a := NewAttrs()
		if err := json.Unmarshal(raw, a); err != nil {
			return nil, err
		}
		return a, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

package tmr

import (
	"sort"

	"github.com/matzehuels/tmrview/pkg/lexicon"
)

// Attribute is one displayable attribute of a frame.
type Attribute struct {
	// Value is the display text. List values hold one member per line.
	Value string `json:"value"`
	// Color is set when the value names another entity, or for rejected words.
	Color string `json:"color,omitempty"`
	// Lexicon is set when a from-sense value resolved to a lexicon entry.
	Lexicon *lexicon.Entry `json:"lexicon,omitempty"`
	// ConstraintInfo is attached to required attributes after sorting.
	ConstraintInfo any `json:"constraintInfo,omitempty"`
}

// Group maps original attribute keys to attributes.
type Group map[string]*Attribute

// Lookup finds an attribute by key, comparing normalized keys. It returns
// the key as stored in the group.
func (g Group) Lookup(key string) (*Attribute, string, bool) {
	if a, ok := g[key]; ok {
		return a, key, true
	}
	want := NormalizeKey(key)
	for _, k := range g.Keys() {
		if NormalizeKey(k) == want {
			return g[k], k, true
		}
	}
	return nil, "", false
}

// Keys returns the group's keys in sorted order.
func (g Group) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attributes partitions a frame's attributes by display priority.
type Attributes struct {
	Required  Group `json:"required"`
	Optional  Group `json:"optional"`
	Auxiliary Group `json:"auxiliary"`
}

// Len returns the total number of attributes.
func (a Attributes) Len() int {
	return len(a.Required) + len(a.Optional) + len(a.Auxiliary)
}

// Frame is one entity of a meaning graph, prepared for display.
type Frame struct {
	ID         string     `json:"id"`
	Color      string     `json:"color,omitempty"`
	Attributes Attributes `json:"attributes"`
	// Constraints holds constraint records keyed by the attribute they
	// describe, until MergeConstraints attaches them.
	Constraints   map[string]any `json:"constraints"`
	Preference    float64        `json:"preference"`
	SemPreference float64        `json:"semPreference"`
}

func newFrame(id, color string) *Frame {
	return &Frame{
		ID:    id,
		Color: color,
		Attributes: Attributes{
			Required:  Group{},
			Optional:  Group{},
			Auxiliary: Group{},
		},
		Constraints: map[string]any{},
	}
}

// IsEvent reports whether the frame's auxiliary is-in-subtree is EVENT.
func (f *Frame) IsEvent() bool {
	a, _, ok := f.Attributes.Auxiliary.Lookup(KeyInSubtree)
	return ok && a.Value == SubtreeEvent
}

// IsRejected reports whether the frame is the rejected-words pseudo entity.
func (f *Frame) IsRejected() bool {
	return IsRejectedKey(f.ID)
}

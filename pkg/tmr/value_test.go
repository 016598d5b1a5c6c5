package tmr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		relation bool
		want     Value
	}{
		{"string", "CAT-1", false, Value{Kind: Literal, Scalar: "CAT-1"}},
		{"number", 3.0, false, Value{Kind: Literal, Scalar: 3.0}},
		{"null", nil, false, Value{Kind: Literal}},
		{"list", []any{"a", "b"}, false, Value{Kind: List, Items: []any{"a", "b"}}},
		{"upper wrapper", map[string]any{"VALUE": "CAT-1"}, true, Value{Kind: Wrapped, Scalar: "CAT-1"}},
		{"lower wrapper", map[string]any{"value": "CAT-1"}, true, Value{Kind: Wrapped, Scalar: "CAT-1"}},
		{"upper wins", map[string]any{"VALUE": "A", "value": "B"}, true, Value{Kind: Wrapped, Scalar: "A"}},
		{"wrapped list", map[string]any{"VALUE": []any{"A"}}, true, Value{Kind: List, Items: []any{"A"}}},
		{"wrapper on non-relation", map[string]any{"VALUE": "CAT-1"}, false, Value{Kind: Object, JSON: `{"VALUE":"CAT-1"}`}},
		{"relation without wrapper", map[string]any{"x": 1.0}, true, Value{Kind: Object, JSON: `{"x":1}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.raw, tt.relation)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeValue mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueDisplay(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"string", "HUMAN", "HUMAN"},
		{"integer", 2.0, "2"},
		{"fraction", 0.25, "0.25"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"list", []any{"CAT-1", "DOG-1"}, "CAT-1\nDOG-1"},
		{"nested list", []any{"a", []any{"b", "c"}}, "a\nb\nc"},
		{"list with object", []any{map[string]any{"k": "v"}}, `{"k":"v"}`},
		{"list with null", []any{"a", nil}, "a\n"},
		{"object with comma", map[string]any{"a": 1.0, "b": 2.0}, "{\"a\":1\n\"b\":2}"},
		{"string with comma", "red, blue", "red\n blue"},
		{"no html escape", "<b>&", "<b>&"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeValue(tt.raw, false).Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	if s, ok := NormalizeValue(map[string]any{"VALUE": "CAT-1"}, true).String(); !ok || s != "CAT-1" {
		t.Errorf("wrapped String() = %q, %v", s, ok)
	}
	if _, ok := NormalizeValue(2.0, false).String(); ok {
		t.Error("number should not report a string")
	}
	if _, ok := NormalizeValue([]any{"CAT-1"}, false).String(); ok {
		t.Error("list should not report a string")
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Literal: "literal", Wrapped: "wrapped", List: "list", Object: "object", Kind(9): "unknown"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{0.5, 0.5},
		{3, 3},
		{" 1.5 ", 1.5},
		{"high", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := number(tt.in); got != tt.want {
			t.Errorf("number(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

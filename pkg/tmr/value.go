package tmr

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the shape of a normalized attribute value.
type Kind int

const (
	// Literal is a scalar: string, number, bool or null.
	Literal Kind = iota
	// Wrapped is a scalar taken from a relation object's VALUE/value field.
	Wrapped
	// List is an array of values.
	List
	// Object is any other object, kept as its JSON text.
	Object
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Wrapped:
		return "wrapped"
	case List:
		return "list"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is a raw attribute value after normalization. Exactly one of
// Scalar, Items or JSON is meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Scalar any
	Items  []any
	JSON   string
}

// wrapperFields are checked in order when unwrapping a relation object.
var wrapperFields = []string{"VALUE", "value"}

// NormalizeValue classifies raw. Relation values that are objects are
// unwrapped through their VALUE or value field first; objects that remain
// are serialized.
func NormalizeValue(raw any, relation bool) Value {
	if relation {
		if obj, ok := raw.(map[string]any); ok {
			for _, field := range wrapperFields {
				inner, ok := obj[field]
				if !ok {
					continue
				}
				v := NormalizeValue(inner, false)
				if v.Kind == Literal {
					v.Kind = Wrapped
				}
				return v
			}
		}
	}

	switch x := raw.(type) {
	case []any:
		return Value{Kind: List, Items: x}
	case map[string]any:
		return Value{Kind: Object, JSON: jsonText(x)}
	case *Attrs:
		return Value{Kind: Object, JSON: jsonText(x)}
	default:
		return Value{Kind: Literal, Scalar: x}
	}
}

// String returns the scalar as a string when the value is a string literal.
func (v Value) String() (string, bool) {
	if v.Kind != Literal && v.Kind != Wrapped {
		return "", false
	}
	s, ok := v.Scalar.(string)
	return s, ok
}

// Text renders the value the way it is stringified for display, before
// line breaks are inserted. Lists are joined with commas.
func (v Value) Text() string {
	switch v.Kind {
	case List:
		return listText(v.Items)
	case Object:
		return v.JSON
	default:
		return scalarText(v.Scalar)
	}
}

// Display is the attribute's display string: Text with every comma turned
// into a line break, so list members land on separate lines.
func (v Value) Display() string {
	return strings.ReplaceAll(v.Text(), ",", "\n")
}

func listText(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		switch x := it.(type) {
		case []any:
			parts[i] = listText(x)
		case map[string]any:
			parts[i] = jsonText(x)
		case nil:
			parts[i] = ""
		default:
			parts[i] = scalarText(x)
		}
	}
	return strings.Join(parts, ",")
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return numberText(x)
	case int:
		return strconv.Itoa(x)
	case json.Number:
		return x.String()
	default:
		return jsonText(x)
	}
}

func numberText(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// jsonText serializes v compactly without HTML escaping. Values that
// cannot be encoded fall back to an empty object.
func jsonText(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// number reads a score field. Strings holding numbers are accepted;
// anything else counts as zero.
func number(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// index converts a decoded JSON number to an integer index.
func index(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case int:
		return x, true
	case json.Number:
		n, err := x.Int64()
		return int(n), err == nil
	}
	return 0, false
}

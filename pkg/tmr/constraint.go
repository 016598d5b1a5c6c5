package tmr

import "sort"

// variableField is dropped from constraint records before display.
const variableField = "variable"

// MergeConstraints attaches each frame's constraint records to the
// required attributes they describe. Records for optional, auxiliary or
// missing attributes are dropped.
func MergeConstraints(frames []*Frame) {
	for _, f := range frames {
		keys := make([]string, 0, len(f.Constraints))
		for k := range f.Constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			attr, _, ok := f.Attributes.Required.Lookup(k)
			if !ok {
				continue
			}
			attr.ConstraintInfo = withoutVariable(f.Constraints[k])
		}
	}
}

// withoutVariable returns a copy of an object-shaped record without its
// variable field. Other values are returned unchanged.
func withoutVariable(v any) any {
	switch rec := v.(type) {
	case map[string]any:
		if _, ok := rec[variableField]; !ok {
			return rec
		}
		out := make(map[string]any, len(rec))
		for k, x := range rec {
			if k != variableField {
				out[k] = x
			}
		}
		return out
	case *Attrs:
		out := NewAttrs()
		for p := rec.Oldest(); p != nil; p = p.Next() {
			if p.Key != variableField {
				out.Set(p.Key, p.Value)
			}
		}
		return out
	}
	return v
}

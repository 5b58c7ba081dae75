package normalize

import "github.com/breeze-go/breeze/coerce"

// Override is consulted for every map entry before generic coercion. It
// reports whether it handled the key; a handled value is stored as returned
// and is not coerced again.
//
// Overrides may call back into Walk or the entity normalizers, which is how
// nested entities are normalized.
type Override func(key string, v any) (any, bool)

// Walk returns a normalized copy of v. Maps and slices are rebuilt, never
// mutated in place.
//
// Slice elements, and values nested under keys the override does not handle,
// are walked without the override: entity rules apply to one level of one
// record, and recursion into other entities is always explicit.
func Walk(v any, override Override) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if override != nil {
				if res, ok := override(k, val); ok {
					out[k] = res
					continue
				}
			}
			out[k] = walkKeyed(k, val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Walk(e, nil)
		}
		return out
	default:
		return coerce.Value(v)
	}
}

func walkKeyed(key string, v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return Walk(v, nil)
	}
	return coerce.Leaf(key, v)
}

// Value is Walk with no override.
func Value(v any) any {
	return Walk(v, nil)
}

package helm

// Values represents helm chart values as a map.
type Values map[string]any

// DeepMerge merges override on top of base and returns a new tree.
//
// Nested maps merge key by key, while scalars and slices from override
// replace the base value. Neither input is modified and the result shares
// no maps or slices with them.
func DeepMerge(base, override Values) Values {
	result := make(Values, len(base)+len(override))
	for k, v := range base {
		result[k] = deepCopy(v)
	}
	for k, v := range override {
		if overrideMap, ok := asMap(v); ok {
			if baseMap, ok := asMap(result[k]); ok {
				result[k] = DeepMerge(baseMap, overrideMap)
				continue
			}
		}
		result[k] = deepCopy(v)
	}
	return result
}

// Merge deep-merges several value trees, later trees taking precedence.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		result = DeepMerge(result, m)
	}
	return result
}

// ToMap converts values to a plain map, recursively replacing nested
// Values with map[string]any as the Helm engine expects.
func (v Values) ToMap() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = toPlain(val)
	}
	return out
}

func asMap(v any) (Values, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	default:
		return nil, false
	}
}

func deepCopy(v any) any {
	if m, ok := asMap(v); ok {
		out := make(Values, len(m))
		for k, child := range m {
			out[k] = deepCopy(child)
		}
		return out
	}
	switch s := v.(type) {
	case []any:
		out := make([]any, len(s))
		for i, child := range s {
			out[i] = deepCopy(child)
		}
		return out
	case []Values:
		out := make([]any, len(s))
		for i, child := range s {
			out[i] = deepCopy(child)
		}
		return out
	case []string:
		return append([]string(nil), s...)
	default:
		return v
	}
}

func toPlain(v any) any {
	if m, ok := asMap(v); ok {
		return m.ToMap()
	}
	switch s := v.(type) {
	case []any:
		out := make([]any, len(s))
		for i, child := range s {
			out[i] = toPlain(child)
		}
		return out
	case []Values:
		out := make([]any, len(s))
		for i, child := range s {
			out[i] = child.ToMap()
		}
		return out
	default:
		return v
	}
}

package jsonval

import (
	"sort"

	"github.com/onagent/onagent/arena"
)

// FromGoValue converts a plain Go value assembled from map[string]any,
// []any, string, bool, and numeric literals (the shape encoding/json
// produces, and the shape hand-written JSON-schema literals use) into
// a Value tree allocated out of a. Object keys are sorted for
// deterministic serialization, since Go map iteration order is not
// stable. Unrecognized types convert to null.
func FromGoValue(a *arena.Arena, v any) *Value {
	switch x := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(x)
	case string:
		return NewStringCopy(a, x)
	case int:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case float64:
		return NewFloat(x)
	case []string:
		arr := NewArray()
		for _, s := range x {
			arr.Append(NewStringCopy(a, s))
		}
		return arr
	case []any:
		arr := NewArray()
		for _, elem := range x {
			arr.Append(FromGoValue(a, elem))
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := NewObject()
		for _, k := range keys {
			obj.ObjectSet(a, k, FromGoValue(a, x[k]))
		}
		return obj
	default:
		return NewNull()
	}
}

// Package jsonval implements the tagged-variant JSON value model, a
// recursive-descent parser with escape/Unicode handling, and a
// canonical serializer, all built on top of package arena.
package jsonval

import "github.com/onagent/onagent/arena"

// Kind tags the variant a Value currently holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

// entry is one key/value pair of an Object value. Order of insertion
// is preserved; a duplicate-key Set replaces the existing entry in
// place without growing the entry vector.
type entry struct {
	Key   arena.View
	Value *Value
}

// Value is a tagged variant over {null, bool, int64, float64,
// string-view, array, object}. Integers and floats are distinct tags;
// GetInt coerces from float by truncation, GetFloat coerces from int
// by widening.
//
// Value structs themselves are plain Go heap objects — Go's GC already
// gives them a safe, correctly-ordered lifetime, so there is no need to
// bump-allocate the struct header the way the arena's C ancestor does.
// What the arena invariant actually protects is string content: every
// String-tagged Value's s field must be a view over arena-backed
// bytes, and Array/Object growth below is deliberately append-only
// (new backing slice + copy on every mutation) to mirror the spec's
// O(n²)-accepted growth policy for small tool-argument objects rather
// than Go's amortized-growth slice append.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     arena.View
	arr   []*Value
	obj   []entry
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a bool value.
func NewBool(b bool) *Value { return &Value{kind: Bool, b: b} }

// NewInt returns an int64 value.
func NewInt(i int64) *Value { return &Value{kind: Int, i: i} }

// NewFloat returns a float64 value.
func NewFloat(f float64) *Value { return &Value{kind: Float, f: f} }

// NewString wraps an arena view as a string value.
func NewString(v arena.View) *Value { return &Value{kind: String, s: v} }

// NewStringCopy copies s into the arena and wraps it as a string value.
func NewStringCopy(a *arena.Arena, s string) *Value {
	return NewString(a.StrdupN([]byte(s)))
}

// NewArray returns an empty array value.
func NewArray() *Value { return &Value{kind: Array} }

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{kind: Object} }

// Kind reports the tag this value currently holds.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsNull reports whether v is nil or Kind() == Null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == Null
}

// GetBool returns the boolean payload; zero value if not a Bool.
func (v *Value) GetBool() bool {
	if v == nil {
		return false
	}
	return v.b
}

// GetInt returns the integer payload. A Float value is coerced by
// truncation.
func (v *Value) GetInt() int64 {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Int:
		return v.i
	case Float:
		return int64(v.f)
	default:
		return 0
	}
}

// GetFloat returns the float payload. An Int value is coerced by
// widening.
func (v *Value) GetFloat() float64 {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Float:
		return v.f
	case Int:
		return float64(v.i)
	default:
		return 0
	}
}

// GetStringView returns the string payload as an arena view.
func (v *Value) GetStringView() arena.View {
	if v == nil || v.kind != String {
		return arena.View{}
	}
	return v.s
}

// GetString returns the string payload, copied into a Go string.
func (v *Value) GetString() string {
	return v.GetStringView().String()
}

// Len returns the element/entry count for Array/Object values, 0
// otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i'th array element, or nil if out of range or not
// an Array.
func (v *Value) Index(i int) *Value {
	if v == nil || v.kind != Array || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// Append appends elem to an Array value. This allocates a new
// count+1-length backing slice and copies, matching the append-only
// growth the spec requires for JSON array construction.
func (v *Value) Append(elem *Value) {
	if v == nil || v.kind != Array {
		return
	}
	next := make([]*Value, len(v.arr)+1)
	copy(next, v.arr)
	next[len(v.arr)] = elem
	v.arr = next
}

// ObjectGet looks up key in an Object value.
func (v *Value) ObjectGet(key string) (*Value, bool) {
	if v == nil || v.kind != Object {
		return nil, false
	}
	for _, e := range v.obj {
		if e.Key.String() == key {
			return e.Value, true
		}
	}
	return nil, false
}

// ObjectSet checks for an existing key first (in-place replace,
// order preserved); otherwise it extends the entry vector by
// allocating a new count+1-length slice and copying.
func (v *Value) ObjectSet(a *arena.Arena, key string, val *Value) {
	if v == nil || v.kind != Object {
		return
	}
	for i := range v.obj {
		if v.obj[i].Key.String() == key {
			v.obj[i].Value = val
			return
		}
	}
	next := make([]entry, len(v.obj)+1)
	copy(next, v.obj)
	next[len(v.obj)] = entry{Key: a.StrdupN([]byte(key)), Value: val}
	v.obj = next
}

// ObjectKeys returns the object's keys in insertion order.
func (v *Value) ObjectKeys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, e := range v.obj {
		keys[i] = e.Key.String()
	}
	return keys
}

// ArraySlice returns the backing slice for an Array value (nil otherwise).
// Callers must not mutate the returned slice directly; use Append.
func (v *Value) ArraySlice() []*Value {
	if v == nil || v.kind != Array {
		return nil
	}
	return v.arr
}

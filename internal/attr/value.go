package attr

import (
	"sort"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is one node of a semi-structured attribute tree (a decoded plan
// state). It is a tagged variant rather than a bare `any` so that absent
// values are first-class: lookups that miss return an absent Value, never an
// error, and comparisons against absent are always false.
//
// Values are read-only once constructed.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

// Absent returns the absent Value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func ListValue(items []Value) Value {
	return Value{kind: KindList, list: items}
}

func MapValue(fields map[string]Value) Value {
	return Value{kind: KindMap, m: fields}
}

// FromAny converts a decoded JSON value (string, float64, bool, []any,
// map[string]any, nil) into a Value. nil and unrecognized types map to absent.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Absent()
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			items = append(items, FromAny(e))
		}
		return ListValue(items)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, e := range t {
			fields[k] = FromAny(e)
		}
		return MapValue(fields)
	default:
		return Absent()
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsTrue reports whether v is the literal boolean true. Absent values and
// values of any other type (including the string "true") are not true.
func (v Value) IsTrue() bool {
	return v.kind == KindBool && v.b
}

func (v Value) StringVal() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) NumberVal() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

func (v Value) BoolVal() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Len returns the element count for lists and the field count for maps,
// and 0 for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Index returns the i-th element of a list, or absent if v is not a list or
// i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Absent()
	}
	return v.list[i]
}

// Items returns the elements of a list, or nil for non-lists.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Field returns the named field of a map, or absent if v is not a map or the
// key is missing.
func (v Value) Field(key string) Value {
	if v.kind != KindMap {
		return Absent()
	}
	f, ok := v.m[key]
	if !ok {
		return Absent()
	}
	return f
}

// Keys returns the field names of a map in sorted order so that iteration is
// deterministic across runs.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports typed exact equality. Comparisons involving an absent value
// are always false, including absent == absent; use IsAbsent for explicit
// absence checks. There is no implicit coercion between types.
func (v Value) Equal(other Value) bool {
	if v.kind == KindAbsent || other.kind == KindAbsent {
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, f := range v.m {
			of, ok := other.m[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EqualString reports whether v is a string equal to s.
func (v Value) EqualString(s string) bool {
	return v.kind == KindString && v.str == s
}

// Interface converts v back to plain Go values (string, float64, bool,
// []any, map[string]any). Absent converts to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, e := range v.list {
			out = append(out, e.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, f := range v.m {
			out[k] = f.Interface()
		}
		return out
	default:
		return nil
	}
}

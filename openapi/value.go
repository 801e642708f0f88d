package openapi

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// ErrUnsupportedValue reports a Go value that has no Resolved Value shape.
var ErrUnsupportedValue = errors.New("unsupported parameter value type")

type valueKind int

const (
	kindAbsent valueKind = iota
	kindInt
	kindUint
	kindFloat
	kindBool
	kindString
	kindBinary
	kindArray
	kindObject
)

// Value is a resolved request field value: absent, a scalar, a binary
// blob, an array, or an object. Values are read-only once constructed.
type Value struct {
	kind valueKind

	i   int64
	u   uint64
	f   float64
	b   bool
	s   string
	bin []byte

	arr []Value

	objKeys []string
	obj     map[string]Value
}

// Absent returns the absent Value; encoding it falls back to the
// parameter's default.
func Absent() Value {
	return Value{}
}

// Int wraps a signed integer.
func Int(v int64) Value {
	return Value{kind: kindInt, i: v}
}

// Uint wraps an unsigned integer.
func Uint(v uint64) Value {
	return Value{kind: kindUint, u: v}
}

// Float wraps a floating-point number.
func Float(v float64) Value {
	return Value{kind: kindFloat, f: v}
}

// Bool wraps a boolean.
func Bool(v bool) Value {
	return Value{kind: kindBool, b: v}
}

// String wraps a string.
func String(v string) Value {
	return Value{kind: kindString, s: v}
}

// Binary wraps a byte blob.
func Binary(v []byte) Value {
	return Value{kind: kindBinary, bin: v}
}

// Array wraps an ordered sequence of Values.
func Array(items ...Value) Value {
	return Value{kind: kindArray, arr: items}
}

// Object wraps a keyed mapping. Fields compose in key order.
func Object(fields map[string]Value) Value {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Value{kind: kindObject, objKeys: keys, obj: fields}
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool {
	return v.kind == kindAbsent
}

// text returns the natural textual form of a scalar or binary value.
func (v Value) text() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindUint:
		return strconv.FormatUint(v.u, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindString:
		return v.s
	case kindBinary:
		return string(v.bin)
	default:
		return ""
	}
}

// bytes returns the octets a format conversion operates on.
func (v Value) bytes() []byte {
	if v.kind == kindBinary {
		return v.bin
	}
	return []byte(v.text())
}

// ValueOf converts a plain Go value into a Value.
//
// Supported shapes: nil (absent), signed and unsigned integers, floats,
// bools, strings, []byte, Value itself, and — via reflection — slices,
// arrays and string-keyed maps of supported shapes. Anything else fails
// with ErrUnsupportedValue.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return t, nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Binary(t), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Array(items...), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%T: %w", v, ErrUnsupportedValue)
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fv, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			fields[iter.Key().String()] = fv
		}
		return Object(fields), nil
	}

	return Value{}, fmt.Errorf("%T: %w", v, ErrUnsupportedValue)
}

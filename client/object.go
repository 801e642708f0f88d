package client

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/kroma-labs/zswag-go/openapi"
)

// Object is the capability a request object graph exposes to the client:
// identifier-based field lookup and zero-argument function invocation.
// Generated zserio request types satisfy it through a thin adapter.
type Object interface {
	// Field returns the named field's value, reporting whether the
	// field exists.
	Field(name string) (any, bool)

	// Invoke calls the named zero-argument function and returns its
	// result, reporting whether the function exists.
	Invoke(name string) (any, bool)
}

// FieldLister is implemented by Objects that can enumerate their set
// fields. It is required when a whole object is used as a parameter
// value: the object flattens to a mapping of its scalar fields.
// Unset optional fields are simply not listed.
type FieldLister interface {
	Fields() []string
}

// resolveFieldPath walks a dot-separated identifier chain through the
// object graph. At every step the current value must be an Object
// exposing the identifier as a field or a function.
func resolveFieldPath(obj Object, path string) (any, error) {
	var current any = obj
	for _, part := range strings.Split(path, ".") {
		o, ok := current.(Object)
		if !ok {
			return nil, fmt.Errorf("segment %q: value is not an object", part)
		}

		if v, found := o.Field(part); found {
			current = v
			continue
		}
		if v, found := o.Invoke(part); found {
			current = v
			continue
		}
		return nil, fmt.Errorf("no field or function for identifier %q", part)
	}
	return current, nil
}

// toValue converts a resolved graph value into an openapi.Value.
//
// Objects flatten to a mapping of their listed scalar fields. Values
// implementing encoding.BinaryMarshaler contribute their serialized
// bytes, so arrays of nested zserio structures encode as binary items.
// Everything else goes through openapi.ValueOf.
func toValue(v any) (openapi.Value, error) {
	if obj, ok := v.(Object); ok {
		return flattenObject(obj)
	}

	if bm, ok := v.(encoding.BinaryMarshaler); ok {
		data, err := bm.MarshalBinary()
		if err != nil {
			return openapi.Value{}, fmt.Errorf("serializing value: %w", err)
		}
		return openapi.Binary(data), nil
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := v.([]byte); !isBytes {
			items := make([]openapi.Value, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				item, err := toValue(rv.Index(i).Interface())
				if err != nil {
					return openapi.Value{}, err
				}
				items[i] = item
			}
			return openapi.Array(items...), nil
		}
	}

	return openapi.ValueOf(v)
}

// flattenObject reduces an object to a mapping of its scalar fields.
func flattenObject(obj Object) (openapi.Value, error) {
	lister, ok := obj.(FieldLister)
	if !ok {
		return openapi.Value{}, fmt.Errorf("object cannot enumerate fields: %w", openapi.ErrUnsupportedValue)
	}

	fields := make(map[string]openapi.Value)
	for _, name := range lister.Fields() {
		raw, found := obj.Field(name)
		if !found {
			continue
		}
		value, err := openapi.ValueOf(raw)
		if err != nil {
			return openapi.Value{}, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = value
	}
	return openapi.Object(fields), nil
}

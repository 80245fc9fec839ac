package internal

import (
	"fmt"
	"reflect"
	"strings"
)

// StructName returns the name of the value's type without package and pointer marker.
// Values implementing fmt.Stringer are named by their String method.
func StructName(v any) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(fmt.Stringer); ok && !IsNil(v) {
		return s.String()
	}

	return TypeName(reflect.TypeOf(v))
}

// TypeName returns the name of t without package and pointer marker.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name := t.Name(); name != "" {
		return name
	}

	return t.String()
}

// ObjectName returns the package qualified name of the value's type, pointer marker trimmed.
func ObjectName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}

// IsNil reports whether v is nil or a typed nil stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

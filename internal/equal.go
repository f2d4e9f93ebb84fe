package internal

import (
	"math"
	"reflect"
)

// IsEqual compares with == when both dynamic values are comparable, and falls
// back to reflect.DeepEqual for maps, slices and other non-comparable values.
// NaN equals NaN, so setting NaN over NaN is not a change.
func IsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatEqual(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return floatEqual(real(ca), real(cb)) && floatEqual(imag(ca), imag(cb))
	}

	if va.Comparable() {
		return a == b
	}

	return reflect.DeepEqual(a, b)
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// IsNil reports whether v is nil or a nil pointer, map, slice, func, chan or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

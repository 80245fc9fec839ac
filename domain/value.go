package domain

import (
	"hash/maphash"
	"reflect"
	"time"

	"github.com/domainkit/domainkit/internal"
)

// ValueObject is implemented by immutable types compared by their attributes.
//
// EqualityComponents returns the attributes taking part in the comparison, always in the
// same order. Returning an empty slice makes all values of the type equal.
type ValueObject interface {
	EqualityComponents() []any
}

const (
	valueHashSeed       uint64 = 17
	valueHashMultiplier uint64 = 23
)

// ValuesEqual reports whether a and b are of the same concrete type and their equality
// components are pairwise equal. Two nil values are equal.
//
// Components are compared with ==, except nested value objects (compared with ValuesEqual),
// time.Time (compared with Time.Equal) and non comparable values (compared with reflect.DeepEqual).
func ValuesEqual(a, b ValueObject) bool {
	aNil, bNil := internal.IsNil(a), internal.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	aComponents, bComponents := a.EqualityComponents(), b.EqualityComponents()
	if len(aComponents) != len(bComponents) {
		return false
	}

	for i := range aComponents {
		if !componentsEqual(aComponents[i], bComponents[i]) {
			return false
		}
	}

	return true
}

// ValueHash folds the hashes of the equality components of v.
// The result depends on the order of the components. Values which are ValuesEqual
// always have the same hash.
func ValueHash(v ValueObject) uint64 {
	if internal.IsNil(v) {
		return 0
	}

	hash := valueHashSeed
	for _, component := range v.EqualityComponents() {
		hash = hash*valueHashMultiplier + componentHash(component)
	}

	return hash
}

func componentsEqual(x, y any) bool {
	xNil, yNil := internal.IsNil(x), internal.IsNil(y)
	if xNil || yNil {
		return xNil && yNil
	}

	switch xv := x.(type) {
	case ValueObject:
		yv, ok := y.(ValueObject)
		return ok && ValuesEqual(xv, yv)
	case time.Time:
		yv, ok := y.(time.Time)
		return ok && xv.Equal(yv)
	}

	if reflect.TypeOf(x) != reflect.TypeOf(y) {
		return false
	}

	if reflect.ValueOf(x).Comparable() {
		return x == y
	}

	return reflect.DeepEqual(x, y)
}

func componentHash(c any) uint64 {
	if internal.IsNil(c) {
		return 0
	}

	switch v := c.(type) {
	case ValueObject:
		return ValueHash(v)
	case time.Time:
		return maphash.Comparable(hashSeed, v.UnixNano())
	}

	if reflect.ValueOf(c).Comparable() {
		return maphash.Comparable(hashSeed, c)
	}

	return deepHash(reflect.ValueOf(c), map[uintptr]struct{}{})
}

// deepHash hashes v the way reflect.DeepEqual compares it: pointers and interfaces are
// followed, maps are hashed independently of iteration order and funcs only match when nil.
// Pointers already on the path hash to a constant, which keeps cyclic values finite.
func deepHash(v reflect.Value, visited map[uintptr]struct{}) uint64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Bool:
		return maphash.Comparable(hashSeed, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return maphash.Comparable(hashSeed, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return maphash.Comparable(hashSeed, v.Uint())
	case reflect.Float32, reflect.Float64:
		return maphash.Comparable(hashSeed, v.Float())
	case reflect.Complex64, reflect.Complex128:
		return maphash.Comparable(hashSeed, v.Complex())
	case reflect.String:
		return maphash.String(hashSeed, v.String())
	case reflect.Chan, reflect.UnsafePointer:
		return maphash.Comparable(hashSeed, v.Pointer())
	case reflect.Func:
		return 0
	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return deepHash(v.Elem(), visited)
	case reflect.Ptr:
		if v.IsNil() {
			return 0
		}
		addr := v.Pointer()
		if _, ok := visited[addr]; ok {
			return 1
		}
		visited[addr] = struct{}{}
		defer delete(visited, addr)

		return deepHash(v.Elem(), visited)
	case reflect.Array, reflect.Slice:
		hash := valueHashSeed + uint64(v.Len())
		for i := range v.Len() {
			hash = hash*valueHashMultiplier + deepHash(v.Index(i), visited)
		}
		return hash
	case reflect.Struct:
		hash := valueHashSeed
		for i := range v.NumField() {
			hash = hash*valueHashMultiplier + deepHash(v.Field(i), visited)
		}
		return hash
	case reflect.Map:
		// entries are summed, so the result does not depend on iteration order
		hash := valueHashSeed + uint64(v.Len())
		iter := v.MapRange()
		for iter.Next() {
			hash += deepHash(iter.Key(), visited)*valueHashMultiplier + deepHash(iter.Value(), visited)
		}
		return hash
	default:
		return 0
	}
}

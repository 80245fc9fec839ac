package domain

import (
	"hash/maphash"
	"reflect"

	"github.com/domainkit/domainkit/internal"
)

var hashSeed = maphash.MakeSeed()

// Identifiable is implemented by everything that has an identity of type TId.
type Identifiable[TId comparable] interface {
	ID() TId
}

// Equal reports whether a and b denote the same entity.
//
// Entities of different concrete types are never equal. The same instance is always
// equal to itself. Otherwise both identifiers must be set (differ from the zero value of
// TId) and be equal, so two transient entities never collide.
// Two nil entities are equal, a nil and a non-nil one are not.
func Equal[TId comparable](a, b Identifiable[TId]) bool {
	aNil, bNil := internal.IsNil(a), internal.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if sameInstance(a, b) {
		return true
	}

	var zero TId
	aID, bID := a.ID(), b.ID()
	if aID == zero || bID == zero {
		return false
	}

	return aID == bID
}

// Hash returns a hash of the entity's concrete type and identifier.
// Entities which are Equal always have the same hash.
//
// Hashes are stable only within one process.
func Hash[TId comparable](e Identifiable[TId]) uint64 {
	if internal.IsNil(e) {
		return 0
	}

	typeHash := maphash.Comparable(hashSeed, reflect.TypeOf(e))
	idHash := maphash.Comparable(hashSeed, e.ID())

	return typeHash*31 + idHash
}

// sameInstance works only for pointers, values are copies and have no instance identity.
func sameInstance(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() != reflect.Ptr || bv.Kind() != reflect.Ptr {
		return false
	}

	return av.Pointer() == bv.Pointer()
}

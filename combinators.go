package vars

import (
	"maps"

	"github.com/AnatoleLucet/vars/internal"
)

// MapValueVar views the value stored under key. An absent key reads as the
// zero value; setting writes the key, copy-on-write. Nothing happens while
// the map itself is nil.
func MapValueVar[K comparable, V any](mapVar Writable[map[K]V], key K) *DerivedVar[V] {
	return NewDerivedVar(
		func() V {
			return mapVar.V()[key]
		},
		func(ongoing bool, value V) (bool, error) {
			return UpdateIfPresent(mapVar, ongoing, func(m map[K]V) map[K]V {
				return mapWith(m, key, value)
			})
		},
		mapVar,
	)
}

// MapValueVarByKey is MapValueVar with a key that is itself a var.
func MapValueVarByKey[K comparable, V any](mapVar Writable[map[K]V], keyVar Readable[K]) *DerivedVar[V] {
	return NewDerivedVar(
		func() V {
			return mapVar.V()[keyVar.V()]
		},
		func(ongoing bool, value V) (bool, error) {
			return UpdateIfPresent(mapVar, ongoing, func(m map[K]V) map[K]V {
				return mapWith(m, keyVar.V(), value)
			})
		},
		mapVar, keyVar,
	)
}

func ReadableMapValueVar[K comparable, V any](mapVar Readable[map[K]V], key K) *Derived[V] {
	return NewDerived(func() V { return mapVar.V()[key] }, mapVar)
}

// MapSubsetVar views the entries of mapVar whose keys are in keysVar.
// Setting it replaces exactly those keys: keys missing from the new submap
// are deleted, and entries for keys outside keysVar are ignored.
func MapSubsetVar[K comparable, V any](mapVar Writable[map[K]V], keysVar Readable[Set[K]]) *DerivedVar[map[K]V] {
	return NewDerivedVar(
		func() map[K]V {
			return submap(mapVar.V(), keysVar.V())
		},
		func(ongoing bool, sub map[K]V) (bool, error) {
			return UpdateIfPresent(mapVar, ongoing, func(old map[K]V) map[K]V {
				next := maps.Clone(old)
				for key := range keysVar.V() {
					if value, ok := sub[key]; ok {
						next[key] = value
					} else {
						delete(next, key)
					}
				}
				return next
			})
		},
		mapVar, keysVar,
	)
}

func ReadableMapSubsetVar[K comparable, V any](mapVar Readable[map[K]V], keysVar Readable[Set[K]]) *Derived[map[K]V] {
	return NewDerived(func() map[K]V {
		return submap(mapVar.V(), keysVar.V())
	}, mapVar, keysVar)
}

func submap[K comparable, V any](m map[K]V, keys Set[K]) map[K]V {
	if m == nil {
		return nil
	}

	sub := make(map[K]V, len(keys))
	for key := range keys {
		if value, ok := m[key]; ok {
			sub[key] = value
		}
	}
	return sub
}

// SetContainsVar views whether setVar holds element. Setting it adds or removes element.
func SetContainsVar[T comparable](setVar Writable[Set[T]], element T) *DerivedVar[bool] {
	return NewDerivedVar(
		func() bool {
			return setVar.V().Has(element)
		},
		func(ongoing bool, value bool) (bool, error) {
			if value {
				return AddSetElement(setVar, ongoing, element)
			}
			return RemoveSetElement(setVar, ongoing, element)
		},
		setVar,
	)
}

// PropertyVar views one property of the value held by ownerVar. It reads as
// fallback while the owner is nil; setting it stores update(owner, value),
// and does nothing while the owner is nil.
func PropertyVar[A, B any](ownerVar Writable[A], get func(A) B, update func(A, B) A, fallback B) *DerivedVar[B] {
	return NewDerivedVar(
		func() B {
			return property(ownerVar.V(), get, fallback)
		},
		func(ongoing bool, value B) (bool, error) {
			return UpdateIfPresent(ownerVar, ongoing, func(owner A) A {
				return update(owner, value)
			})
		},
		ownerVar,
	)
}

func ReadablePropertyVar[A, B any](ownerVar Readable[A], get func(A) B, fallback B) *Derived[B] {
	return NewDerived(func() B {
		return property(ownerVar.V(), get, fallback)
	}, ownerVar)
}

func property[A, B any](owner A, get func(A) B, fallback B) B {
	if internal.IsNil(owner) {
		return fallback
	}
	return get(owner)
}

// SubtypeVar views the value of v as a B, reading the zero B when the
// value is not one. Setting it stores the B back into v.
func SubtypeVar[A, B any](v Writable[A]) *DerivedVar[B] {
	return NewDerivedVar(
		func() B {
			b, _ := any(v.V()).(B)
			return b
		},
		func(ongoing bool, value B) (bool, error) {
			a, ok := any(value).(A)
			if !ok {
				if !internal.IsNil(value) {
					return false, &InvalidValueError{Value: value}
				}
				var zero A
				a = zero
			}
			return v.Set(ongoing, a)
		},
		v,
	)
}

func ReadableSubtypeVar[A, B any](v Readable[A]) *Derived[B] {
	return NewDerived(func() B {
		b, _ := any(v.V()).(B)
		return b
	}, v)
}

// SubtypePropertyVar views a property of the value of v when it is a B.
func SubtypePropertyVar[A, B, C any](v Writable[A], get func(B) C, update func(B, C) B, fallback C) *DerivedVar[C] {
	return PropertyVar(SubtypeVar[A, B](v), get, update, fallback)
}

func ReadableSubtypePropertyVar[A, B, C any](v Readable[A], get func(B) C, fallback C) *Derived[C] {
	return ReadablePropertyVar(ReadableSubtypeVar[A, B](v), get, fallback)
}

func AddSetElement[T comparable](setVar Writable[Set[T]], ongoing bool, element T) (bool, error) {
	return Update(setVar, ongoing, func(s Set[T]) Set[T] { return s.With(element) })
}

func RemoveSetElement[T comparable](setVar Writable[Set[T]], ongoing bool, element T) (bool, error) {
	return Update(setVar, ongoing, func(s Set[T]) Set[T] { return s.Without(element) })
}

func PutMapValue[K comparable, V any](mapVar Writable[map[K]V], ongoing bool, key K, value V) (bool, error) {
	return Update(mapVar, ongoing, func(m map[K]V) map[K]V { return mapWith(m, key, value) })
}

// UpdateMapValue stores fn(current) under key. fn receives the zero value and
// false when the key is absent.
func UpdateMapValue[K comparable, V any](mapVar Writable[map[K]V], ongoing bool, key K, fn func(V, bool) V) (bool, error) {
	return Update(mapVar, ongoing, func(m map[K]V) map[K]V {
		current, ok := m[key]
		return mapWith(m, key, fn(current, ok))
	})
}

func DeleteMapValue[K comparable, V any](mapVar Writable[map[K]V], ongoing bool, key K) (bool, error) {
	return Update(mapVar, ongoing, func(m map[K]V) map[K]V {
		if _, ok := m[key]; !ok {
			return m
		}
		next := maps.Clone(m)
		delete(next, key)
		return next
	})
}

// mapWith returns m itself when key already holds value.
func mapWith[K comparable, V any](m map[K]V, key K, value V) map[K]V {
	if current, ok := m[key]; ok && defaultEquals(current, value) {
		return m
	}

	next := make(map[K]V, len(m)+1)
	maps.Copy(next, m)
	next[key] = value
	return next
}

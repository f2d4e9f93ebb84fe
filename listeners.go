package vars

import "github.com/AnatoleLucet/vars/internal"

// Completed selects the completed stream of r, for AddOldNewListenerOn.
func Completed[T any](r Readable[T]) Listenable { return r.Completed() }

// All selects the all stream of r, for AddOldNewListenerOn.
func All[T any](r Readable[T]) Listenable { return r.All() }

// AddOldNewListenerOn calls listener with the previous and current value of r
// whenever the stream chosen by member fires and the value has changed.
// With Immediate, listener first receives the zero value and the current value.
func AddOldNewListenerOn[T any](r Readable[T], member func(Readable[T]) Listenable, listener func(oldValue, newValue T), flags ...ListenerFlag) Disposable {
	fs := internal.ResolveFlags(flags...)
	if fs.Immediate {
		var zero T
		listener(zero, r.V())
		if fs.Once {
			return internal.NopDisposable
		}
	}

	value := r.V()
	return member(r).AddListener(func() {
		oldValue, newValue := value, r.V()
		if defaultEquals(newValue, oldValue) {
			return
		}

		value = newValue
		listener(oldValue, newValue)
	}, internal.Without(flags, Immediate)...)
}

// AddOldNewListener calls listener on every change of r with the previous
// and current value, including a completed change that ends an ongoing run
// without moving the value.
func AddOldNewListener[T any](r Readable[T], listener func(ongoing bool, oldValue, newValue T), flags ...ListenerFlag) Disposable {
	fs := internal.ResolveFlags(flags...)
	if fs.Immediate {
		var zero T
		listener(false, zero, r.V())
		if fs.Once {
			return internal.NopDisposable
		}
	}

	value := r.V()
	hasOngoingChanges := false
	return r.AddListener(func(ongoing bool) {
		oldValue, newValue := value, r.V()
		if (ongoing || !hasOngoingChanges) && defaultEquals(newValue, oldValue) {
			return
		}

		value = newValue
		hasOngoingChanges = ongoing
		listener(ongoing, oldValue, newValue)
	}, internal.Without(flags, Immediate)...)
}

// OnMapEntryChanged calls listener for each key whose entry was added,
// removed or changed. Absent entries are passed as the zero value.
func OnMapEntryChanged[K comparable, V any](r Readable[map[K]V], listener func(ongoing bool, key K, oldValue, newValue V), flags ...ListenerFlag) Disposable {
	return AddOldNewListener(r, func(ongoing bool, oldMap, newMap map[K]V) {
		for key, oldValue := range oldMap {
			newValue, ok := newMap[key]
			if !ok || !defaultEquals(newValue, oldValue) {
				listener(ongoing, key, oldValue, newValue)
			}
		}
		for key, newValue := range newMap {
			if _, ok := oldMap[key]; !ok {
				var zero V
				listener(ongoing, key, zero, newValue)
			}
		}
	}, flags...)
}

func OnMapKeyAdded[K comparable, V any](r Readable[map[K]V], listener func(ongoing bool, key K), flags ...ListenerFlag) Disposable {
	return AddOldNewListener(r, func(ongoing bool, oldMap, newMap map[K]V) {
		for key := range newMap {
			if _, ok := oldMap[key]; !ok {
				listener(ongoing, key)
			}
		}
	}, flags...)
}

func OnMapKeyRemoved[K comparable, V any](r Readable[map[K]V], listener func(ongoing bool, key K), flags ...ListenerFlag) Disposable {
	return AddOldNewListener(r, func(ongoing bool, oldMap, newMap map[K]V) {
		for key := range oldMap {
			if _, ok := newMap[key]; !ok {
				listener(ongoing, key)
			}
		}
	}, flags...)
}

func OnElementAdded[T comparable](r Readable[Set[T]], listener func(ongoing bool, element T), flags ...ListenerFlag) Disposable {
	return AddOldNewListener(r, func(ongoing bool, oldSet, newSet Set[T]) {
		for element := range newSet {
			if !oldSet.Has(element) {
				listener(ongoing, element)
			}
		}
	}, flags...)
}

func OnElementRemoved[T comparable](r Readable[Set[T]], listener func(ongoing bool, element T), flags ...ListenerFlag) Disposable {
	return AddOldNewListener(r, func(ongoing bool, oldSet, newSet Set[T]) {
		for element := range oldSet {
			if !newSet.Has(element) {
				listener(ongoing, element)
			}
		}
	}, flags...)
}

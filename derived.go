package vars

import "github.com/AnatoleLucet/vars/internal"

// Derived is a read-only var computed from upstream listenables.
// It recomputes on every read and notifies only when the computed value
// differs from the last one its listener saw.
type Derived[T any] struct {
	compute  func() T
	upstream ActivityListenable
	equal    func(a, b T) bool

	completed Listenable
	all       Listenable
}

// NewDerived creates a derived var. compute is re-run on every read and on
// every fire of any upstream.
func NewDerived[T any](compute func() T, upstreams ...ActivityListenable) *Derived[T] {
	d := &Derived[T]{
		compute:  compute,
		upstream: ActivityListenableOf(upstreams...),
		equal:    defaultEquals[T],
	}
	d.completed = &filteredListenable[T]{d.upstream.Completed(), d}
	d.all = &filteredListenable[T]{d.upstream.All(), d}

	return d
}

// WithEquals replaces the equality used to drop redundant notifications.
func (d *Derived[T]) WithEquals(equal func(a, b T) bool) *Derived[T] {
	d.equal = equal
	return d
}

func (d *Derived[T]) V() T {
	return d.compute()
}

func (d *Derived[T]) Completed() Listenable { return d.completed }

func (d *Derived[T]) All() Listenable { return d.all }

func (d *Derived[T]) AddListener(listener ActivityListener, flags ...ListenerFlag) Disposable {
	return handleImmediateActivity(flags, listener, func(rest []ListenerFlag) Disposable {
		if !internal.ResolveFlags(rest...).Once {
			return d.upstream.AddListener(filterActivityListener(listener, d.V, d.equal), rest...)
		}

		// consume the registration on the first forwarded change, not the first upstream fire
		group := internal.NewDisposableGroup()
		filtered := filterActivityListener(runOnceActivity(group, listener), d.V, d.equal)
		group.Add(d.upstream.AddListener(filtered, internal.Without(rest, Once)...))
		return group
	})
}

// DerivedVar is a Derived whose Set writes through to its upstream.
type DerivedVar[T any] struct {
	*Derived[T]

	set func(ongoing bool, value T) (bool, error)
}

// NewDerivedVar creates a writable derived var.
func NewDerivedVar[T any](compute func() T, set func(ongoing bool, value T) (bool, error), upstreams ...ActivityListenable) *DerivedVar[T] {
	return &DerivedVar[T]{
		Derived: NewDerived(compute, upstreams...),
		set:     set,
	}
}

func (d *DerivedVar[T]) WithEquals(equal func(a, b T) bool) *DerivedVar[T] {
	d.Derived.WithEquals(equal)
	return d
}

func (d *DerivedVar[T]) Set(ongoing bool, value T) (bool, error) {
	return d.set(ongoing, value)
}

// SetValue applies a completed change.
func (d *DerivedVar[T]) SetValue(value T) (bool, error) {
	return d.set(false, value)
}

type filteredListenable[T any] struct {
	raw     Listenable
	derived *Derived[T]
}

func (l *filteredListenable[T]) AddListener(listener func(), flags ...ListenerFlag) Disposable {
	return handleImmediate(flags, listener, func(rest []ListenerFlag) Disposable {
		if !internal.ResolveFlags(rest...).Once {
			return l.raw.AddListener(filterListener(listener, l.derived.V, l.derived.equal), rest...)
		}

		group := internal.NewDisposableGroup()
		filtered := filterListener(runOnce(group, listener), l.derived.V, l.derived.equal)
		group.Add(l.raw.AddListener(filtered, internal.Without(rest, Once)...))
		return group
	})
}

// FilterListenable wraps raw so that its listeners only run when valueFn
// returns something new.
func FilterListenable[T any](raw Listenable, valueFn func() T) Listenable {
	return &filteredListenable[T]{raw, &Derived[T]{compute: valueFn, equal: defaultEquals[T]}}
}

// filterListener captures the value at registration time and forwards only real changes.
func filterListener[T any](listener func(), valueFn func() T, equal func(a, b T) bool) func() {
	value := valueFn()

	return func() {
		newValue := valueFn()
		if equal(newValue, value) {
			return
		}

		value = newValue
		listener()
	}
}

// filterActivityListener also forwards a completed change that closes a run
// of ongoing ones, even if the value ended where the last ongoing change left it.
func filterActivityListener[T any](listener ActivityListener, valueFn func() T, equal func(a, b T) bool) ActivityListener {
	value := valueFn()
	hasOngoingChanges := false

	return func(ongoing bool) {
		newValue := valueFn()
		if (ongoing || !hasOngoingChanges) && equal(newValue, value) {
			return
		}

		value = newValue
		hasOngoingChanges = ongoing
		listener(ongoing)
	}
}

func defaultEquals[T any](a, b T) bool {
	return internal.IsEqual(a, b)
}

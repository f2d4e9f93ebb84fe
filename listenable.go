package vars

import "github.com/AnatoleLucet/vars/internal"

// Listenable is a registry of zero-argument listeners.
type Listenable interface {
	AddListener(listener func(), flags ...ListenerFlag) Disposable
}

// ActivityListener receives whether the change it reacts to is ongoing.
type ActivityListener func(ongoing bool)

// ActivityListenable separates completed changes from all (ongoing or completed) changes.
type ActivityListenable interface {
	Completed() Listenable
	All() Listenable
	AddListener(listener ActivityListener, flags ...ListenerFlag) Disposable
}

// BasicListenable is a fire-capable Listenable.
type BasicListenable struct {
	registry *internal.Registry
}

// NewListenable creates an empty listenable.
// Fires made within one transaction run its listeners once.
func NewListenable() *BasicListenable {
	return &BasicListenable{internal.NewRegistry(true)}
}

func (l *BasicListenable) AddListener(listener func(), flags ...ListenerFlag) Disposable {
	return addRegistryListener(l.registry, listener, flags)
}

// Fire runs the listeners in the post-commit phase of the active transaction.
func (l *BasicListenable) Fire() {
	l.registry.Fire(nil)
}

func addRegistryListener(r *internal.Registry, listener func(), flags []ListenerFlag) Disposable {
	return r.Add(internal.ResolveFlags(flags...), func(any) { listener() }, nil)
}

// ListenableOf merges listenables: its listeners run whenever any of them fires.
func ListenableOf(listenables ...Listenable) Listenable {
	return listenableSet(listenables)
}

// CompletedListenable merges the completed streams of the given listenables.
func CompletedListenable(listenables ...ActivityListenable) Listenable {
	return ListenableOf(mapSlice(listenables, ActivityListenable.Completed)...)
}

// AllListenable merges the all streams of the given listenables.
func AllListenable(listenables ...ActivityListenable) Listenable {
	return ListenableOf(mapSlice(listenables, ActivityListenable.All)...)
}

// ActivityListenableOf merges activity listenables.
func ActivityListenableOf(listenables ...ActivityListenable) ActivityListenable {
	return &activityListenableSet{
		members:   listenables,
		completed: CompletedListenable(listenables...),
		all:       AllListenable(listenables...),
	}
}

type listenableSet []Listenable

func (s listenableSet) AddListener(listener func(), flags ...ListenerFlag) Disposable {
	return handleImmediate(flags, listener, func(rest []ListenerFlag) Disposable {
		group := internal.NewDisposableGroup()

		if !internal.ResolveFlags(rest...).Once {
			for _, l := range s {
				group.Add(l.AddListener(listener, rest...))
			}
			return group
		}

		// once across all members, not once per member
		rest = internal.Without(rest, Once)
		wrapped := runOnce(group, listener)
		for _, l := range s {
			group.Add(l.AddListener(wrapped, rest...))
		}
		return group
	})
}

type activityListenableSet struct {
	members   []ActivityListenable
	completed Listenable
	all       Listenable
}

func (s *activityListenableSet) Completed() Listenable { return s.completed }

func (s *activityListenableSet) All() Listenable { return s.all }

func (s *activityListenableSet) AddListener(listener ActivityListener, flags ...ListenerFlag) Disposable {
	return handleImmediateActivity(flags, listener, func(rest []ListenerFlag) Disposable {
		group := internal.NewDisposableGroup()

		if !internal.ResolveFlags(rest...).Once {
			for _, m := range s.members {
				group.Add(m.AddListener(listener, rest...))
			}
			return group
		}

		rest = internal.Without(rest, Once)
		wrapped := runOnceActivity(group, listener)
		for _, m := range s.members {
			group.Add(m.AddListener(wrapped, rest...))
		}
		return group
	})
}

// handleImmediate runs listener right away when flags hold Immediate, then
// registers it through add without that flag (unless Once makes it done).
func handleImmediate(flags []ListenerFlag, listener func(), add func(rest []ListenerFlag) Disposable) Disposable {
	fs := internal.ResolveFlags(flags...)
	if fs.Immediate {
		listener()
		if fs.Once {
			return internal.NopDisposable
		}
	}

	return add(internal.Without(flags, Immediate))
}

func handleImmediateActivity(flags []ListenerFlag, listener ActivityListener, add func(rest []ListenerFlag) Disposable) Disposable {
	return handleImmediate(flags, func() { listener(false) }, add)
}

// addActivityListener registers listener on both raw streams of a var.
func addActivityListener(ongoing, completed Listenable, listener ActivityListener, flags []ListenerFlag) Disposable {
	group := internal.NewDisposableGroup()

	if !internal.ResolveFlags(flags...).Once {
		group.Add(ongoing.AddListener(func() { listener(true) }, flags...))
		group.Add(completed.AddListener(func() { listener(false) }, flags...))
		return group
	}

	rest := internal.Without(flags, Once)
	wrapped := runOnceActivity(group, listener)
	group.Add(ongoing.AddListener(func() { wrapped(true) }, rest...))
	group.Add(completed.AddListener(func() { wrapped(false) }, rest...))
	return group
}

// runOnce wraps listener so that it runs at most once, disposing group first.
func runOnce(group *internal.DisposableGroup, listener func()) func() {
	fired := false
	return func() {
		if fired {
			return
		}
		fired = true
		group.Dispose()
		listener()
	}
}

func runOnceActivity(group *internal.DisposableGroup, listener ActivityListener) ActivityListener {
	fired := false
	return func(ongoing bool) {
		if fired {
			return
		}
		fired = true
		group.Dispose()
		listener(ongoing)
	}
}

func mapSlice[T, R any](ts []T, fn func(T) R) []R {
	rs := make([]R, len(ts))
	for i, t := range ts {
		rs[i] = fn(t)
	}
	return rs
}

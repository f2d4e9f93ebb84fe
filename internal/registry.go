package internal

import (
	"slices"
	"sync"
	"sync/atomic"
)

type entry struct {
	flags FlagSet
	fn    func(any)

	removed atomic.Bool
}

// Registry is an ordered, copy-on-write list of listeners.
// A firing pass iterates a frozen snapshot, so listeners may add or remove
// listeners (themselves included) while it runs.
type Registry struct {
	mu      sync.Mutex // serializes writers
	entries atomic.Pointer[[]*entry]

	// merge collapses repeated fires inside one transaction into one pass
	merge   bool
	pending *Txn
}

func NewRegistry(merge bool) *Registry {
	r := &Registry{merge: merge}
	r.entries.Store(&[]*entry{})
	return r
}

func (r *Registry) snapshot() []*entry {
	return *r.entries.Load()
}

func (r *Registry) Len() int {
	return len(r.snapshot())
}

// Add registers fn. With Immediate, fn is first called with immediateArg;
// with Immediate and Once together, fn is never stored.
func (r *Registry) Add(flags FlagSet, fn func(any), immediateArg any) Disposable {
	if flags.Immediate {
		fn(immediateArg)
		if flags.Once {
			return NopDisposable
		}
	}

	e := &entry{flags: flags, fn: fn}
	r.insert(e)

	return NewDisposable(func() { r.remove(e) })
}

func (r *Registry) insert(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snapshot()

	// after every entry with an order <= e's, keeping registration order on ties
	i := len(old)
	for i > 0 && old[i-1].flags.Order > e.flags.Order {
		i--
	}

	next := slices.Insert(slices.Clone(old), i, e)
	r.entries.Store(&next)
}

func (r *Registry) remove(e *entry) {
	e.removed.Store(true)

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snapshot()
	i := slices.Index(old, e)
	if i < 0 {
		return
	}

	next := slices.Delete(slices.Clone(old), i, i+1)
	r.entries.Store(&next)
}

// Fire schedules every listener to run with arg during the post-commit phase
// of the active transaction, or right away if none is open.
func (r *Registry) Fire(arg any) {
	rt := GetRuntime()

	_ = rt.DoTxn("", func() error {
		txn := rt.ActiveTxn()

		if r.merge {
			if r.pending == txn {
				return nil
			}
			r.pending = txn
		}

		txn.Add(&fireMember{registry: r, arg: arg})
		return nil
	})
}

func (r *Registry) run(arg any) {
	entries := r.snapshot()
	if len(entries) == 0 {
		return
	}

	logFire(len(entries))

	count := 0
	for _, e := range entries {
		if e.flags.Once {
			// consume first so a reentrant fire can't run it again
			if !e.removed.CompareAndSwap(false, true) {
				continue
			}
			count++
			r.invokeOnce(e, arg)
			continue
		}

		if e.removed.Load() {
			continue
		}
		count++
		e.fn(arg)
	}

	getObserver().ListenersFired(count)
}

func (r *Registry) invokeOnce(e *entry, arg any) {
	defer r.remove(e)
	e.fn(arg)
}

type fireMember struct {
	registry *Registry
	arg      any
}

func (m *fireMember) Commit() error { return nil }

func (m *fireMember) Rollback() {
	m.registry.pending = nil
}

func (m *fireMember) PostCommit() {
	m.registry.pending = nil
	m.registry.run(m.arg)
}

package internal

import "sync"

// Disposable cancels a registration. Dispose is idempotent.
type Disposable interface {
	Dispose()
}

type disposeFunc struct {
	once sync.Once
	fn   func()
}

func NewDisposable(fn func()) Disposable {
	return &disposeFunc{fn: fn}
}

func (d *disposeFunc) Dispose() {
	d.once.Do(d.fn)
}

type nopDisposable struct{}

func (nopDisposable) Dispose() {}

// NopDisposable is returned for registrations that were never stored.
var NopDisposable Disposable = nopDisposable{}

// DisposableGroup disposes several handles as one.
// Handles added after Dispose are disposed right away.
type DisposableGroup struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

func NewDisposableGroup() *DisposableGroup {
	return &DisposableGroup{}
}

func (g *DisposableGroup) Add(d Disposable) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		d.Dispose()
		return
	}
	g.items = append(g.items, d)
	g.mu.Unlock()
}

func (g *DisposableGroup) Dispose() {
	g.mu.Lock()
	items := g.items
	g.items = nil
	g.disposed = true
	g.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}

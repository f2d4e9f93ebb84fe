package vars

import "github.com/AnatoleLucet/vars/internal"

// ListenerFlag configures a listener registration.
type ListenerFlag = internal.Flag

var (
	// Once unregisters the listener after its first invocation.
	Once = internal.Once

	// Immediate invokes the listener synchronously when it is registered.
	Immediate = internal.Immediate
)

// Order sets the listener priority: lower fires earlier, ties fire in registration order.
func Order(n int) ListenerFlag {
	return internal.Order(n)
}

// Disposable cancels a listener registration. Dispose is idempotent and safe
// to call from inside a listener.
type Disposable = internal.Disposable

// DisposableGroup disposes several handles as one.
type DisposableGroup = internal.DisposableGroup

func NewDisposableGroup() *DisposableGroup {
	return internal.NewDisposableGroup()
}

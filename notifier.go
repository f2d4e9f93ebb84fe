package vars

import "github.com/AnatoleLucet/vars/internal"

// Notifier broadcasts one-shot events carrying a value.
type Notifier[T any] struct {
	registry     *internal.Registry
	immediateArg T
}

// NewNotifier creates a notifier. Listeners registered with Immediate receive immediateArg.
func NewNotifier[T any](immediateArg T) *Notifier[T] {
	return &Notifier[T]{
		registry:     internal.NewRegistry(false),
		immediateArg: immediateArg,
	}
}

func (n *Notifier[T]) AddListener(listener func(T), flags ...ListenerFlag) Disposable {
	return n.registry.Add(internal.ResolveFlags(flags...), func(v any) {
		listener(as[T](v))
	}, n.immediateArg)
}

// Fire delivers v to every listener in the post-commit phase of the active transaction.
func (n *Notifier[T]) Fire(v T) {
	n.registry.Fire(v)
}

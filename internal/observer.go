package internal

import (
	"sync/atomic"
	"time"
)

// Observer receives counts from the transaction runtime.
// Calls are made synchronously on the mutating goroutine, so they must be fast.
type Observer interface {
	TxnCommitted(members int, elapsed time.Duration)
	TxnRolledBack(members int, cause error)
	ListenersFired(count int)
}

type NopObserver struct{}

func (NopObserver) TxnCommitted(int, time.Duration) {}
func (NopObserver) TxnRolledBack(int, error)        {}
func (NopObserver) ListenersFired(int)              {}

type observerBox struct{ Observer }

var activeObserver atomic.Pointer[observerBox]

func init() {
	activeObserver.Store(&observerBox{NopObserver{}})
}

// SetObserver replaces the runtime observer. A nil observer disables observation.
func SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	activeObserver.Store(&observerBox{o})
}

func getObserver() Observer {
	return activeObserver.Load().Observer
}

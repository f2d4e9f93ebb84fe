//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// goroutine id -> *Runtime, only while a transaction is open
var runtimes sync.Map

func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	return &Runtime{id: gid}
}

func storeRuntime(r *Runtime) {
	runtimes.Store(r.id, r)
}

func releaseRuntime(r *Runtime) {
	runtimes.Delete(r.id)
}

func getGID() int64 {
	return goid.Get()
}

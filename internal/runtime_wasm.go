//go:build wasm

package internal

var globalRuntime = &Runtime{}

func GetRuntime() *Runtime {
	return globalRuntime
}

func storeRuntime(*Runtime) {}

func releaseRuntime(*Runtime) {}

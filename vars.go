// Package vars propagates state changes between observable values.
//
// A Var holds a validated value. Setting it registers a rollback point with
// the goroutine's active transaction, opening one implicitly when none is
// open. Listeners run in the post-commit phase, in ascending Order, after
// every member of the transaction has committed.
package vars

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

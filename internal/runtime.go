package internal

// Runtime holds the transaction state of a single goroutine.
// Mutations made on a goroutine join the transaction of that goroutine's runtime.
type Runtime struct {
	id  int64
	txn *Txn
}

// ActiveTxn returns the open transaction, or nil.
func (r *Runtime) ActiveTxn() *Txn {
	return r.txn
}

func (r *Runtime) InTxn() bool {
	return r.txn != nil
}

// Begin opens a transaction scoped to this runtime's goroutine.
func (r *Runtime) Begin(name string) (*Txn, error) {
	if r.txn != nil {
		return nil, ErrTxnActive
	}

	txn := newTxn(r, name)
	r.txn = txn
	storeRuntime(r)

	txn.logBegin()
	return txn, nil
}

// DoTxn runs fn inside the active transaction, or inside a new one that is
// committed right after fn returns.
// A non-nil error from fn, or a panic, rolls the new transaction back.
func (r *Runtime) DoTxn(name string, fn func() error) error {
	if r.txn != nil {
		// already inside a txn
		return fn()
	}

	txn, err := r.Begin(name)
	if err != nil {
		return err
	}

	finished := false
	defer func() {
		if !finished {
			// fn panicked
			txn.rollback(errPanicked)
		}
	}()

	if err := fn(); err != nil {
		finished = true
		txn.rollback(err)
		return err
	}

	finished = true
	return txn.Commit()
}

// AddToActiveTxn appends m to the active transaction. With no transaction
// open, m is committed (and post-committed) immediately.
func (r *Runtime) AddToActiveTxn(m Member) error {
	return r.DoTxn("", func() error {
		r.txn.Add(m)
		return nil
	})
}

func (r *Runtime) detach(txn *Txn) {
	if r.txn == txn {
		r.txn = nil
		releaseRuntime(r)
	}
}

package internal

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Member participates in a transaction.
// Commit is called on every member before PostCommit is called on any of them.
type Member interface {
	Commit() error
	Rollback()
	PostCommit()
}

// MemberFuncs adapts plain funcs into a Member. Nil funcs are skipped.
type MemberFuncs struct {
	OnCommit     func() error
	OnRollback   func()
	OnPostCommit func()
}

func (m MemberFuncs) Commit() error {
	if m.OnCommit == nil {
		return nil
	}
	return m.OnCommit()
}

func (m MemberFuncs) Rollback() {
	if m.OnRollback != nil {
		m.OnRollback()
	}
}

func (m MemberFuncs) PostCommit() {
	if m.OnPostCommit != nil {
		m.OnPostCommit()
	}
}

type Txn struct {
	runtime *Runtime

	name    string
	id      string // only set when debug logging is on
	started time.Time

	members []Member

	done bool
}

func newTxn(r *Runtime, name string) *Txn {
	t := &Txn{
		runtime: r,
		name:    name,
		started: time.Now(),
	}

	if debugEnabled() {
		t.id = uuid.NewString()
	}

	return t
}

func (t *Txn) Name() string { return t.name }

func (t *Txn) Len() int { return len(t.members) }

func (t *Txn) Done() bool { return t.done }

func (t *Txn) Add(m Member) {
	t.members = append(t.members, m)
}

// Commit detaches the transaction from its goroutine, then commits every
// member in registration order. If any member fails, all members are rolled
// back in reverse order and no PostCommit runs. A member that panics during
// commit gets the same rollback before the panic continues.
func (t *Txn) Commit() error {
	if t.done {
		return ErrTxnClosed
	}
	t.done = true
	t.runtime.detach(t)

	for i, m := range t.members {
		if err := t.commitMember(m); err != nil {
			cerr := &CommitError{
				Member: i,
				Err:    errors.Wrapf(err, "commit member %d of %d", i+1, len(t.members)),
			}

			t.rollbackMembers()
			t.logRollback(cerr)
			getObserver().TxnRolledBack(len(t.members), cerr)
			return cerr
		}
	}

	elapsed := time.Since(t.started)
	t.logCommit(elapsed)
	getObserver().TxnCommitted(len(t.members), elapsed)

	// listeners run here, with no txn active on this goroutine
	for _, m := range t.members {
		m.PostCommit()
	}

	return nil
}

// Rollback discards every member's changes. It is a no-op returning
// ErrTxnClosed once the transaction has finished.
func (t *Txn) Rollback() error {
	if t.done {
		return ErrTxnClosed
	}

	t.rollback(nil)
	return nil
}

func (t *Txn) rollback(cause error) {
	if t.done {
		return
	}
	t.done = true
	t.runtime.detach(t)

	t.rollbackMembers()
	t.logRollback(cause)
	getObserver().TxnRolledBack(len(t.members), cause)
}

func (t *Txn) commitMember(m Member) error {
	finished := false
	defer func() {
		if !finished {
			t.rollbackMembers()
			t.logRollback(errPanicked)
			getObserver().TxnRolledBack(len(t.members), errPanicked)
		}
	}()

	err := m.Commit()
	finished = true
	return err
}

func (t *Txn) rollbackMembers() {
	for i := len(t.members) - 1; i >= 0; i-- {
		t.members[i].Rollback()
	}
}

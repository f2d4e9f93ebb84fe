package vars

import (
	"go.uber.org/zap"

	"github.com/AnatoleLucet/vars/internal"
)

// TxnMember takes part in a transaction.
// Commit runs on every member before PostCommit runs on any of them.
type TxnMember = internal.Member

// TxnMemberFuncs builds a TxnMember from funcs. Nil funcs are skipped.
type TxnMemberFuncs = internal.MemberFuncs

// Txn is an explicit transaction bound to the goroutine that began it.
type Txn struct {
	txn *internal.Txn
}

// Begin opens a transaction on the calling goroutine.
// Every mutation made on this goroutine joins it until Commit or Rollback.
//
//	txn, err := vars.Begin()
//	if err != nil {
//	    return err
//	}
//	defer txn.Rollback()
//
//	x.SetValue(1)
//	y.SetValue(2)
//	return txn.Commit()
func Begin() (*Txn, error) {
	return BeginNamed("")
}

// BeginNamed is Begin with a name attached to the transaction's log entries.
func BeginNamed(name string) (*Txn, error) {
	txn, err := internal.GetRuntime().Begin(name)
	if err != nil {
		return nil, err
	}
	return &Txn{txn}, nil
}

// Commit commits every member, then fires listeners.
// If a member fails to commit, everything is rolled back and the error matches ErrTxnFailed.
func (t *Txn) Commit() error {
	return t.txn.Commit()
}

// Rollback restores every value changed in the transaction. No listener fires.
// After Commit it does nothing and returns ErrTxnClosed.
func (t *Txn) Rollback() error {
	return t.txn.Rollback()
}

// DoTxn runs fn as one transaction. If fn returns an error or panics, every
// change it made is rolled back and no listener fires.
// Inside an active transaction, fn simply joins it.
func DoTxn(fn func() error) error {
	return internal.GetRuntime().DoTxn("", fn)
}

// DoTxnNamed is DoTxn with a name attached to the transaction's log entries.
func DoTxnNamed(name string, fn func() error) error {
	return internal.GetRuntime().DoTxn(name, fn)
}

// AddToActiveTxn registers m with the active transaction. With none open,
// m is committed right away.
func AddToActiveTxn(m TxnMember) error {
	return internal.GetRuntime().AddToActiveTxn(m)
}

// InTxn reports whether the calling goroutine has a transaction open.
func InTxn() bool {
	return internal.GetRuntime().InTxn()
}

// SetLogger sets the logger for transaction boundaries. Nil disables logging.
func SetLogger(l *zap.Logger) {
	internal.SetLogger(l)
}

// Observer receives transaction and listener counts, e.g. for metrics.
type Observer = internal.Observer

// SetObserver installs o. Nil removes the current observer.
func SetObserver(o Observer) {
	internal.SetObserver(o)
}

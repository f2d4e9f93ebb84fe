package vars

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoTxn(t *testing.T) {
	t.Run("defers listeners until commit", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		y := NewVar(0)

		x.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("x %d, y %d", x.V(), y.V()))
		})

		err := DoTxn(func() error {
			x.SetValue(1)
			y.SetValue(2)
			log = append(log, "updated")
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"updated",
			"x 1, y 2",
		}, log)
	})

	t.Run("applies changes eagerly inside the txn", func(t *testing.T) {
		x := NewVar(0)

		err := DoTxn(func() error {
			x.SetValue(5)
			assert.Equal(t, 5, x.V())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 5, x.V())
	})

	t.Run("fires a listenable once per txn", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("x %d", x.V()))
		})

		DoTxn(func() error {
			x.SetValue(1)
			x.SetValue(2)
			x.SetValue(3)
			return nil
		})

		assert.Equal(t, []string{"x 3"}, log)
	})

	t.Run("rolls back every change on error", func(t *testing.T) {
		log := []string{}

		x := NewVar(1)
		y := NewVar(2)

		x.Completed().AddListener(func() { log = append(log, "x") })
		y.Completed().AddListener(func() { log = append(log, "y") })

		err := DoTxn(func() error {
			x.SetValue(10)
			y.SetValue(20)
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, x.V())
		assert.Equal(t, 2, y.V())
		assert.Empty(t, log)
		assert.False(t, InTxn())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() { log = append(log, "x") })

		assert.Panics(t, func() {
			DoTxn(func() error {
				x.SetValue(9)
				panic("boom")
			})
		})

		assert.Equal(t, 0, x.V())
		assert.Empty(t, log)
		assert.False(t, InTxn())

		// the goroutine is usable again
		x.SetValue(1)
		assert.Equal(t, []string{"x"}, log)
	})

	t.Run("rolls back ongoing state", func(t *testing.T) {
		x := NewVar(0)
		x.Set(true, 1)
		require.True(t, x.HasOngoingChanges())

		DoTxn(func() error {
			x.SetValue(2)
			assert.False(t, x.HasOngoingChanges())
			return assert.AnError
		})

		assert.Equal(t, 1, x.V())
		assert.True(t, x.HasOngoingChanges())
	})

	t.Run("nested DoTxn joins the outer txn", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("x %d", x.V()))
		})

		err := DoTxn(func() error {
			DoTxn(func() error {
				x.SetValue(1)
				return nil
			})
			log = append(log, "inner done")
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 0, x.V())
		assert.Equal(t, []string{"inner done"}, log)
	})

	t.Run("an inner error the caller swallows does not roll back", func(t *testing.T) {
		x := NewVar(0)
		y := NewVar(0)

		err := DoTxn(func() error {
			x.SetValue(1)
			_ = DoTxn(func() error {
				y.SetValue(1)
				return assert.AnError
			})
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, x.V())
		assert.Equal(t, 1, y.V())
	})

	t.Run("listeners run outside any txn", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		y := NewVar(0)

		x.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("x listener in txn: %v", InTxn()))
			y.SetValue(x.V() * 2)
			log = append(log, fmt.Sprintf("y set to %d", y.V()))
		})
		y.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("y %d", y.V()))
		})

		DoTxn(func() error {
			x.SetValue(21)
			return nil
		})

		assert.Equal(t, []string{
			"x listener in txn: false",
			"y 42",
			"y set to 42",
		}, log)
	})

	t.Run("runs listeners in order after all commits", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() { log = append(log, "x listener") })

		DoTxn(func() error {
			AddToActiveTxn(TxnMemberFuncs{
				OnCommit: func() error {
					log = append(log, "first commit")
					return nil
				},
				OnPostCommit: func() { log = append(log, "first post commit") },
			})
			x.SetValue(1)
			AddToActiveTxn(TxnMemberFuncs{
				OnCommit: func() error {
					log = append(log, "last commit")
					return nil
				},
				OnPostCommit: func() { log = append(log, "last post commit") },
			})
			return nil
		})

		assert.Equal(t, []string{
			"first commit",
			"last commit",
			"first post commit",
			"x listener",
			"last post commit",
		}, log)
	})
}

func TestCommitFailure(t *testing.T) {
	t.Run("rolls back every member in reverse order", func(t *testing.T) {
		log := []string{}
		diskFull := errors.New("disk full")

		x := NewVar(0)
		x.Completed().AddListener(func() { log = append(log, "x listener") })

		err := DoTxn(func() error {
			AddToActiveTxn(TxnMemberFuncs{
				OnRollback: func() { log = append(log, "first rollback") },
			})
			AddToActiveTxn(TxnMemberFuncs{
				OnCommit:   func() error { return diskFull },
				OnRollback: func() { log = append(log, "failing rollback") },
			})
			x.SetValue(5)
			AddToActiveTxn(TxnMemberFuncs{
				OnCommit: func() error {
					log = append(log, "last commit")
					return nil
				},
				OnRollback:   func() { log = append(log, "last rollback") },
				OnPostCommit: func() { log = append(log, "last post commit") },
			})
			return nil
		})

		assert.ErrorIs(t, err, ErrTxnFailed)
		assert.ErrorIs(t, err, diskFull)

		var commitErr *CommitError
		require.ErrorAs(t, err, &commitErr)
		assert.Equal(t, 1, commitErr.Member)

		assert.Equal(t, 0, x.V())
		assert.Equal(t, []string{
			"last rollback",
			"failing rollback",
			"first rollback",
		}, log)
		assert.False(t, InTxn())
	})

	t.Run("a panicking commit rolls back and keeps panicking", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() { log = append(log, "x listener") })

		assert.PanicsWithValue(t, "boom", func() {
			DoTxn(func() error {
				AddToActiveTxn(TxnMemberFuncs{
					OnCommit:   func() error { panic("boom") },
					OnRollback: func() { log = append(log, "panicking rollback") },
				})
				x.SetValue(2)
				return nil
			})
		})

		assert.Equal(t, 0, x.V())
		assert.Equal(t, []string{"panicking rollback"}, log)
		assert.False(t, InTxn())

		// x must register with the next txn again so its rollback restores 0
		DoTxn(func() error {
			x.SetValue(3)
			return assert.AnError
		})
		assert.Equal(t, 0, x.V())

		assert.NoError(t, DoTxn(func() error {
			x.SetValue(4)
			return nil
		}))
		assert.Equal(t, 4, x.V())
		assert.Equal(t, []string{"panicking rollback", "x listener"}, log)
	})
}

func TestBegin(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() {
			log = append(log, fmt.Sprintf("x %d", x.V()))
		})

		txn, err := Begin()
		require.NoError(t, err)
		assert.True(t, InTxn())

		x.SetValue(1)
		assert.Empty(t, log)

		require.NoError(t, txn.Commit())
		assert.False(t, InTxn())
		assert.Equal(t, []string{"x 1"}, log)
	})

	t.Run("rollback", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		x.Completed().AddListener(func() { log = append(log, "x") })

		txn, err := BeginNamed("drag")
		require.NoError(t, err)

		x.SetValue(1)
		require.NoError(t, txn.Rollback())

		assert.Equal(t, 0, x.V())
		assert.Empty(t, log)
		assert.False(t, InTxn())
	})

	t.Run("only one txn per goroutine", func(t *testing.T) {
		txn, err := Begin()
		require.NoError(t, err)
		defer txn.Rollback()

		_, err = Begin()
		assert.ErrorIs(t, err, ErrTxnActive)
	})

	t.Run("finishing twice", func(t *testing.T) {
		txn, err := Begin()
		require.NoError(t, err)
		require.NoError(t, txn.Commit())

		assert.ErrorIs(t, txn.Commit(), ErrTxnClosed)
		assert.ErrorIs(t, txn.Rollback(), ErrTxnClosed)
	})

	t.Run("is scoped to its goroutine", func(t *testing.T) {
		log := []string{}

		x := NewVar(0)
		y := NewVar(0)
		y.Completed().AddListener(func() { log = append(log, "y") })

		txn, err := Begin()
		require.NoError(t, err)

		x.SetValue(1)

		done := make(chan bool)
		go func() {
			inTxn := InTxn()
			y.SetValue(1)
			done <- inTxn
		}()
		assert.False(t, <-done)

		// the other goroutine's change committed on its own
		assert.Equal(t, []string{"y"}, log)

		require.NoError(t, txn.Rollback())
		assert.Equal(t, 0, x.V())
		assert.Equal(t, 1, y.V())
	})
}

func TestAddToActiveTxn(t *testing.T) {
	t.Run("commits right away without a txn", func(t *testing.T) {
		log := []string{}

		err := AddToActiveTxn(TxnMemberFuncs{
			OnCommit: func() error {
				log = append(log, "commit")
				return nil
			},
			OnPostCommit: func() { log = append(log, "post commit") },
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"commit", "post commit"}, log)
	})

	t.Run("reports a failing commit", func(t *testing.T) {
		err := AddToActiveTxn(TxnMemberFuncs{
			OnCommit: func() error { return assert.AnError },
		})
		assert.ErrorIs(t, err, ErrTxnFailed)
	})
}

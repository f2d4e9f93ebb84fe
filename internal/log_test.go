package internal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTxnLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	rt := GetRuntime()
	require.NoError(t, rt.DoTxn("save", func() error { return nil }))
	_ = rt.DoTxn("", func() error { return assert.AnError })

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, "txn begin", entries[0].Message)
	assert.Equal(t, "txn commit", entries[1].Message)
	assert.Equal(t, "txn begin", entries[2].Message)
	assert.Equal(t, "txn rollback", entries[3].Message)
	assert.Equal(t, zap.WarnLevel, entries[3].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "save", fields["name"])
	assert.EqualValues(t, 0, fields["members"])

	_, err := uuid.Parse(fields["txn"].(string))
	assert.NoError(t, err)

	assert.Equal(t, assert.AnError.Error(), entries[3].ContextMap()["error"])
}

func TestTxnLoggingDisabled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	rt := GetRuntime()
	txn, err := rt.Begin("")
	require.NoError(t, err)

	// ids are only generated for debug logs
	assert.Empty(t, txn.id)
	require.NoError(t, txn.Commit())
	assert.Equal(t, 0, logs.Len())
}

type countingObserver struct {
	commits, rollbacks, listeners int
}

func (o *countingObserver) TxnCommitted(int, time.Duration) { o.commits++ }
func (o *countingObserver) TxnRolledBack(int, error)        { o.rollbacks++ }
func (o *countingObserver) ListenersFired(n int)            { o.listeners += n }

func TestObserver(t *testing.T) {
	o := &countingObserver{}
	SetObserver(o)
	defer SetObserver(nil)

	r := NewRegistry(true)
	r.Add(ResolveFlags(), func(any) {}, nil)
	r.Add(ResolveFlags(), func(any) {}, nil)

	r.Fire(nil)
	_ = GetRuntime().DoTxn("", func() error {
		r.Fire(nil)
		return assert.AnError
	})

	assert.Equal(t, 1, o.commits)
	assert.Equal(t, 1, o.rollbacks)
	assert.Equal(t, 2, o.listeners)
}

package internal

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger replaces the package logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

func Logger() *zap.Logger {
	return logger.Load()
}

func debugEnabled() bool {
	return Logger().Core().Enabled(zapcore.DebugLevel)
}

func (t *Txn) logFields(extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, 2+len(extra))
	if t.id != "" {
		fields = append(fields, zap.String("txn", t.id))
	}
	if t.name != "" {
		fields = append(fields, zap.String("name", t.name))
	}
	return append(fields, extra...)
}

func (t *Txn) logBegin() {
	if ce := Logger().Check(zapcore.DebugLevel, "txn begin"); ce != nil {
		ce.Write(t.logFields()...)
	}
}

func (t *Txn) logCommit(elapsed time.Duration) {
	if ce := Logger().Check(zapcore.DebugLevel, "txn commit"); ce != nil {
		ce.Write(t.logFields(
			zap.Int("members", len(t.members)),
			zap.Duration("duration", elapsed),
		)...)
	}
}

func (t *Txn) logRollback(cause error) {
	if ce := Logger().Check(zapcore.WarnLevel, "txn rollback"); ce != nil {
		fields := t.logFields(zap.Int("members", len(t.members)))
		if cause != nil {
			fields = append(fields, zap.Error(cause))
		}
		ce.Write(fields...)
	}
}

func logFire(listeners int) {
	if ce := Logger().Check(zapcore.DebugLevel, "fire"); ce != nil {
		ce.Write(zap.Int("listeners", listeners))
	}
}

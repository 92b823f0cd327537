package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"error", gormlogger.Warn, time.Now(), errors.New("syntax error"), "SQL Error", zapcore.ErrorLevel},
		{"slow", gormlogger.Warn, time.Now().Add(-time.Second), nil, "SLOW SQL >= 200ms", zapcore.WarnLevel},
		{"normal at info", gormlogger.Info, time.Now(), nil, "SQL Query", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level)

			gl.Trace(context.Background(), tt.begin, sqlFunc("SELECT * FROM products", 2), tt.err)

			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "SELECT * FROM products", entry.ContextMap()["sql"])
		})
	}
}

func TestGormLogger_Trace_Suppressed(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)

	NewGormLogger(zap.New(core), gormlogger.Silent).
		Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), errors.New("x"))
	NewGormLogger(zap.New(core), gormlogger.Warn).
		Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	NewGormLogger(zap.New(core), gormlogger.Warn).
		Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), nil)

	assert.Zero(t, recorded.Len())
}

func TestGormLogger_Trace_RecordNotFoundWhenNotIgnored(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
}

func TestGormLogger_Trace_CustomThresholdAndRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")

	gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), sqlFunc("UPDATE products SET stock = 1", 1), nil)

	entries := recorded.FilterMessage("SLOW SQL >= 10ms").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	changed, ok := gl.LogMode(gormlogger.Error).(*GormLogger)

	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Error, changed.logLevel)
}

func TestGormLogger_Printf(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "ignored %d", 1)
	gl.Warn(context.Background(), "warned %d", 2)
	gl.Error(context.Background(), "failed %s", "migration")

	require.Equal(t, 2, recorded.Len())
	assert.Equal(t, "warned 2", recorded.All()[0].Message)
	assert.Equal(t, "failed migration", recorded.All()[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGormLogger_PrintfCarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")

	gl.Info(ctx, "replacing callback %s", "gorm:create")

	entries := recorded.FilterMessage("replacing callback gorm:create").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_ZeroThresholdDisablesSlowLog(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(0))

	gl.Trace(context.Background(), time.Now().Add(-time.Minute), sqlFunc("SELECT 1", 1), nil)

	assert.Zero(t, recorded.Len())
}

func TestGormLogger_Trace_SessionID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx := WithSessionID(context.Background(), "sess-3")

	gl.Trace(ctx, time.Now(), sqlFunc("DELETE FROM products WHERE id = $1", 1), nil)

	entries := recorded.FilterMessage("SQL Query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sess-3", entries[0].ContextMap()["session_id"])
}

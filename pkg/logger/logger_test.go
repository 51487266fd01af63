package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gorest.log")

	log, err := NewWithConfig(Config{
		Level:       "debug",
		Format:      "json",
		OutputPath:  path,
		ServiceName: "gorest-users",
	})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, 42)

	WithContext(ctx, base).Info("with fields")
	WithContext(context.Background(), base).Info("without fields")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(42), fields["user_id"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, GetRequestID(ContextWithRequestID(context.Background(), a)))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 0.1, "warn")
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 0, logs.Len())

	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	l.Trace(ctx, time.Now(), sql, errors.New("disk full"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "query failed", logs.All()[0].Message)

	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow query", logs.All()[1].Message)

	l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sql, nil)
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "query", logs.All()[2].Message)

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 3, logs.Len())
}

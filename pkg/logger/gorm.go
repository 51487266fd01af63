package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxSQLLength = 1000

// GormLogger routes GORM logs through zap
type GormLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger. level is one of silent, error, warn
// or info; debug maps to info.
func NewGormLogger(log *zap.Logger, slowQuerySeconds float64, level string) *GormLogger {
	var lvl gormlogger.LogLevel
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info", "debug":
		lvl = gormlogger.Info
	default:
		lvl = gormlogger.Warn
	}

	return &GormLogger{
		log:           log.Named("gorm"),
		slowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		level:         lvl,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. A missing row is a cache miss for
// the creation-time table, so ErrRecordNotFound is not logged as an error.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	if len(sql) > maxSQLLength {
		sql = sql[:maxSQLLength] + "..."
	}

	log := WithContext(ctx, l.log)
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error("query failed", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		log.Warn("slow query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormlogger.Info:
		log.Info("query", fields...)
	}
}

/*
Package logger - GORM to zap log adapter.
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

type GormLoggerAdapter struct {
	logLevel logger.LogLevel
	logger   *zap.Logger
}

func NewGormLoggerAdapter(logLevel logger.LogLevel) *GormLoggerAdapter {
	baseLogger := log
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	return &GormLoggerAdapter{logLevel: logLevel, logger: baseLogger}
}

func (l *GormLoggerAdapter) LogMode(logLevel logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{logLevel: logLevel, logger: l.logger}
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}

	if err != nil && l.logLevel >= logger.Error && !errors.Is(err, logger.ErrRecordNotFound) {
		l.logger.Error("Database operation failed", append(fields, zap.Error(err))...)
		return
	}

	if elapsed > slowQueryThreshold && l.logLevel >= logger.Warn {
		l.logger.Warn("Slow SQL query", fields...)
		return
	}

	if l.logLevel >= logger.Info {
		l.logger.Info("SQL query executed", fields...)
	}
}

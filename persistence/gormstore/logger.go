package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/domainkit/domainkit"
)

// GormLogger passes gorm logs to domainkit.LoggerAdapter.
// Queries are logged on the trace level, failed queries on the error level.
// Record not found is not a failure.
type GormLogger struct {
	logger domainkit.LoggerAdapter
	level  gormlogger.LogLevel
}

func NewGormLogger(logger domainkit.LoggerAdapter) *GormLogger {
	if logger == nil {
		logger = domainkit.NopLogger{}
	}

	return &GormLogger{
		logger: logger.With(domainkit.LogFields{"component": "gorm"}),
		level:  gormlogger.Info,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cpy := *l
	cpy.level = level
	return &cpy
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...), nil)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.Info(fmt.Sprintf(msg, args...), domainkit.LogFields{"warning": true})
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...), nil, nil)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	sql, rows := fc()
	fields := domainkit.LogFields{
		"sql":      sql,
		"rows":     rows,
		"duration": time.Since(begin),
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error {
		l.logger.Error("Query failed", err, fields)
		return
	}
	if l.level >= gormlogger.Info {
		l.logger.Trace("Query executed", fields)
	}
}

package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// GormLoggerConfig configures the zap-backed GORM logger.
type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
}

func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        200 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
}

// GormLogger sends GORM output to the request logger and records every
// statement in the DB query histogram.
type GormLogger struct {
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		level:                cfg.Level,
		slowThreshold:        cfg.SlowThreshold,
		ignoreRecordNotFound: cfg.IgnoreRecordNotFound,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.WithCtx(ctx).Infow(msg, "component", "gorm", "data", data)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.WithCtx(ctx).Warnw(msg, "component", "gorm", "data", data)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.WithCtx(ctx).Errorw(msg, "component", "gorm", "data", data)
	}
}

// Trace is called once per statement. Metrics are recorded regardless of
// the log level.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	metrics.ObserveDBQuery(operationFromSQL(sql), begin)

	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	fields := []interface{}{
		"component", "gorm",
		"sql", strings.TrimSpace(sql),
		"rows_affected", rows,
		"duration_ms", elapsed.Milliseconds(),
	}

	log := logger.WithCtx(ctx)
	switch {
	case err != nil && l.level >= gormlogger.Error && !(l.ignoreRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)):
		// Unique violations are an expected outcome handled by the caller.
		if IsDuplicateKey(err) {
			log.Debugw("gorm.query", append(fields, zap.Error(err))...)
			return
		}
		log.Errorw("gorm.query", append(fields, zap.Error(err))...)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		log.Warnw("gorm.slow_query", fields...)
	case l.level >= gormlogger.Info:
		log.Debugw("gorm.query", fields...)
	}
}

// operationFromSQL maps a statement to a low-cardinality metric label.
func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(strings.TrimSpace(sql))) {
		switch strings.Trim(token, "();") {
		case "SELECT":
			return "select"
		case "INSERT":
			return "insert"
		case "UPDATE":
			return "update"
		case "DELETE":
			return "delete"
		case "WITH":
			continue
		default:
			return "other"
		}
	}
	return "other"
}

var _ gormlogger.Interface = (*GormLogger)(nil)

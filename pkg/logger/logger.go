// Package logger provides the service-wide structured logger built on zap.
//
// The key extension over a plain zap logger is WithCtx: it returns the
// logger that middleware.Logger stored in the request context, so every log
// line from a handler or service carries the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Infow("product created", "id", p.ID)
//	// → {"level":"info","msg":"product created","request_id":"…","id":7}
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shashiranjanraj/catalog/config"
)

// L is the base logger. It is never nil.
var L = zap.NewNop().Sugar()

func init() {
	if err := Setup(Options{
		Level:  config.LogLevel(),
		Format: config.LogFormat(),
		File:   config.LogFile(),
	}); err != nil {
		L = zap.NewExample().Sugar()
		L.Warnw("logger: falling back to example logger", "error", err)
	}
}

// Options selects level, encoding and optional rotated file output.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // json | console
	File   string // empty: stdout only
}

// Setup (re)builds L from opts and installs it as zap's global logger.
func Setup(opts Options) error {
	level := zap.NewAtomicLevel()
	lvl := opts.Level
	if lvl == "" {
		lvl = "info"
	}
	if err := level.UnmarshalText([]byte(lvl)); err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if opts.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	zap.ReplaceGlobals(base)
	L = base.Sugar()
	return nil
}

// Sync flushes buffered log entries. Call before exit.
func Sync() { _ = L.Sync() }

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or L when there is none.
func WithCtx(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by middleware.Logger.
func InjectLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debugw(msg, args...) }

func Info(msg string, args ...any) { L.Infow(msg, args...) }

func Warn(msg string, args ...any) { L.Warnw(msg, args...) }

func Error(msg string, args ...any) { L.Errorw(msg, args...) }

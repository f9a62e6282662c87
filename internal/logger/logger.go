// Package logger wraps a process-wide zap logger with an adjustable level and
// context-aware helpers.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mu           sync.RWMutex
	global       *zap.SugaredLogger
	defaultLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	global = New(defaultLevel, zapcore.Lock(os.Stderr))
}

// New builds a console logger writing to sinks, or to stderr when none are
// given. A nil level means the process-wide level.
func New(level zapcore.LevelEnabler, sinks ...zapcore.WriteSyncer) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	ws := zapcore.Lock(os.Stderr)
	if len(sinks) > 0 {
		ws = zapcore.NewMultiWriteSyncer(sinks...)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	return zap.New(core).Sugar()
}

// ToFile sends all further logging to the file at path, appending. The
// returned function restores the previous logger and closes the file.
func ToFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	prev := Logger()
	SetLogger(New(defaultLevel, zapcore.AddSync(f)))

	return func() {
		_ = Logger().Sync()
		SetLogger(prev)
		_ = f.Close()
	}, nil
}

// Logger returns the process-wide logger.
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Level returns the process-wide level.
func Level() zapcore.Level {
	return defaultLevel.Level()
}

// SetLevel changes the process-wide level.
func SetLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

// ParseLogLevel parses a level name, ignoring case and surrounding space.
// Unknown names return InfoLevel and false.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil || s == "" {
		return zapcore.InfoLevel, false
	}
	return level, true
}

// WithKV returns a context whose log lines carry the given key-value pairs.
func WithKV(ctx context.Context, kvs ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, fromContext(ctx).With(kvs...))
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return Logger()
}

// Debug logs at debug level.
func Debug(ctx context.Context, args ...any) { fromContext(ctx).Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, msg string, kvs ...any) {
	fromContext(ctx).Debugw(msg, kvs...)
}

// Info logs at info level.
func Info(ctx context.Context, args ...any) { fromContext(ctx).Info(args...) }

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, msg string, kvs ...any) {
	fromContext(ctx).Infow(msg, kvs...)
}

// Warn logs at warn level.
func Warn(ctx context.Context, args ...any) { fromContext(ctx).Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, msg string, kvs ...any) {
	fromContext(ctx).Warnw(msg, kvs...)
}

// Error logs at error level.
func Error(ctx context.Context, args ...any) { fromContext(ctx).Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, msg string, kvs ...any) {
	fromContext(ctx).Errorw(msg, kvs...)
}

// Fatalf logs a formatted message and exits.
func Fatalf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Fatalf(format, args...)
}

// Package logger wraps zap behind the small structured-logging surface the
// migrator uses.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Field is a structured logging field.
type Field = zapcore.Field

// Logger is the structured logger used across the migrator.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type loggerImpl struct {
	zap *zap.Logger
}

// NewLogger builds a JSON logger for name writing to w at level. Unknown
// levels fall back to info.
func NewLogger(name, level string, w io.Writer) Logger {
	return newLogger(name, level, "json", zapcore.Lock(zapcore.AddSync(w)))
}

// NewConsoleLogger is NewLogger with the human-oriented console encoding.
func NewConsoleLogger(name, level string, w io.Writer) Logger {
	return newLogger(name, level, "console", zapcore.Lock(zapcore.AddSync(w)))
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &loggerImpl{zap: zap.NewNop()}
}

func newLogger(name, level, encoding string, ws zapcore.WriteSyncer) Logger {
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atom = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if encoding == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, ws, atom)

	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if name != "" {
		l = l.Named(name)
	}

	return &loggerImpl{zap: l}
}

func (l *loggerImpl) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *loggerImpl) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *loggerImpl) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *loggerImpl) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

func (l *loggerImpl) With(fields ...Field) Logger {
	return &loggerImpl{zap: l.zap.With(fields...)}
}

func (l *loggerImpl) Sync() error {
	return l.zap.Sync()
}

// Any constructs a field with any value.
func Any(key string, value interface{}) Field {
	return zap.Any(key, value)
}

// String constructs a string field.
func String(key, value string) Field {
	return zap.String(key, value)
}

// Int constructs an int field.
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// Error constructs an "error" field.
func Error(err error) Field {
	return zap.Error(err)
}

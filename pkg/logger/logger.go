package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	ZapLogger *zap.Logger
}

// New builds a logger. Format "json" gives production output, anything else the
// console development encoder. Level is debug, info, warn or error.
func New(level, format string) *Logger {
	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	zapLogger, err := cfg.Build()
	if err != nil {
		zapLogger = zap.NewExample()
	}
	return &Logger{ZapLogger: zapLogger}
}

// Nop discards everything; used by tests and the CLI's quiet mode.
func Nop() *Logger {
	return &Logger{ZapLogger: zap.NewNop()}
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.ZapLogger.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.ZapLogger.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.ZapLogger.Error(msg, fields...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.ZapLogger.Debug(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.ZapLogger.Fatal(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.ZapLogger.Sync()
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{ZapLogger: l.ZapLogger.With(fields...)}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

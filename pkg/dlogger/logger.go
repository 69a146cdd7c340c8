// Package dlogger exposes a simple zap logger, with log levels
package dlogger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"

	// FormatConsole renders human-readable log lines
	FormatConsole = "console"

	// FormatJSON renders structured json log lines
	FormatJSON = "json"
)

// GetLogger returns a zap logger with the specified level, logging to stderr.
//
// The console format is the default for interactive use.
func GetLogger(logLevel string, format ...string) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = FormatConsole
	if len(format) > 0 && format[0] == FormatJSON {
		zapConfig.Encoding = FormatJSON
	}
	if zapConfig.Encoding == FormatConsole {
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapConfig.DisableStacktrace = true
		zapConfig.DisableCaller = true
	}
	zapConfig.Sampling = nil
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string, format ...string) *zap.Logger {
	l, err := GetLogger(logLevel, format...)
	if err != nil {
		panic(err)
	}
	return l
}

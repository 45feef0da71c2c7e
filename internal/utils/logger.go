package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var applicationLogLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// Its level is shared with EnableDebugLogging so flags parsed after construction still apply.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = applicationLogLevel
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// EnableDebugLogging lowers the application logger level to debug.
func EnableDebugLogging() {
	applicationLogLevel.SetLevel(zapcore.DebugLevel)
}

// LoggerOrNop returns logger, or a no-op logger when it is nil.
func LoggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

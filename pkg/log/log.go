package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a JSON production logger tagged with the service name.
func NewZapLogger(name string, level zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}

	return logger.Named(name).Sugar()
}

// ParseLevel falls back to info for unknown or empty values.
func ParseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

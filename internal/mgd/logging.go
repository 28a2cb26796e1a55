package mgd

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a structured logger from log settings. Invalid
// settings fall back to info-level console output on stderr.
func NewLogger(cfg LogSettings) *zap.Logger {
	level := zapcore.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	zcfg := zap.NewProductionConfig()
	if strings.ToLower(cfg.Format) != "json" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		zcfg.OutputPaths = []string{"stdout"}
	case "", "stderr":
		zcfg.OutputPaths = []string{"stderr"}
	default:
		zcfg.OutputPaths = []string{cfg.Output}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("app", "mediagrid"))
}

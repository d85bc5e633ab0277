// Package logger builds the zap.Logger every other package logs
// through, keeping construction in one place so call sites only carry a
// LoggerConfig.
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig controls the logger's verbosity and encoding.
type LoggerConfig struct {
	// Debug enables debug-level logging and a human-readable console
	// encoder; otherwise the logger is info-level with JSON encoding,
	// suited to production log aggregation.
	Debug bool
}

// NewLogger builds a zap.Logger per cfg. A nil cfg is treated as the
// production default.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	var zapCfg zap.Config
	if cfg.Debug {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zapCfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}
	return l, nil
}

package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// InitLogger builds the process-wide zap logger based on GO_ENV and LOG_LEVEL.
func InitLogger(cfg *Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg != nil && cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg != nil {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	logger = l
	return logger, nil
}

// GetLogger returns the process logger, falling back to a no-op logger
// so services never have to nil-check it.
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger sets the logger instance (primarily for testing)
func SetLogger(l *zap.Logger) {
	logger = l
}

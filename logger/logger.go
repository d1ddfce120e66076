// Package logger builds the service's zap logger.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"placementapi/config"
)

const encodeTimeFormat = "2006-01-02 15:04:05.000"

// ParseLevel maps a config level name to a zap level; unknown names are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a JSON logger writing to stderr, or to a rotating file when
// cfg.File is set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var syncer zapcore.WriteSyncer
	if cfg.File == "" {
		syncer = zapcore.Lock(os.Stderr)
	} else {
		syncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
			Compress:   cfg.Compress,
		})
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(encodeTimeFormat)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		syncer,
		zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

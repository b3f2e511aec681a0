package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "accessibility"

// New создает zap-логгер. LOG_FORMAT=console или уровень debug дают цветной
// вывод для разработки, иначе JSON с семплированием повторяющихся сообщений.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel || format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = lvl == zapcore.DebugLevel
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build(zap.Fields(zap.String("service", serviceName)))
}

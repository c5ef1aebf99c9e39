package logger

import (
	"errors"
	"os"

	"gatekv/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var ErrUnknownLoggerLevel = errors.New("unknown logger level")

var levelByName = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

func ParseLevel(name string) (zapcore.Level, error) {
	level, found := levelByName[name]
	if !found {
		return zapcore.InfoLevel, ErrUnknownLoggerLevel
	}

	return level, nil
}

// New builds a json logger writing to stderr and, when conf.Output is set,
// to a size-rotated file.
func New(conf *config.LoggingConfig) (*zap.Logger, error) {
	level, err := ParseLevel(conf.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if conf.Output != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Output,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   conf.Compress,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.Int("pid", os.Getpid())),
	), nil
}

package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ModeRelease = "release"
	ModeDebug   = "debug"

	maxSize    = 50 // megabytes
	maxBackups = 30
	maxAge     = 28 // days
)

// Logger is the application logger once SetupLogger has run.
var Logger = zap.NewNop()

// file backing Logger, nil when logging to the console only
var appLog *lumberjack.Logger

// SetupLogger tees console output with a size rotated JSON file. Release
// mode logs from info upward without caller or stack traces.
func SetupLogger(logFile, mode string) (*zap.Logger, error) {
	var (
		config  zap.Config
		encoder zapcore.EncoderConfig
		level   zapcore.Level
	)
	if mode == ModeRelease {
		config = zap.NewProductionConfig()
		config.DisableCaller = true
		config.DisableStacktrace = true
		encoder = zap.NewProductionEncoderConfig()
		level = zap.InfoLevel
	} else {
		config = zap.NewDevelopmentConfig()
		encoder = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	var file *lumberjack.Logger
	if logFile != "" {
		file = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   true,
		}
	}

	logger, err := config.Build(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		if file == nil {
			return c
		}
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoder), zapcore.AddSync(file), level)
		return zapcore.NewTee(c, core)
	}))
	if err != nil {
		return nil, err
	}
	Logger = logger
	appLog = file
	return logger, nil
}

// AppLog returns the closer of the file set up by SetupLogger.
func AppLog() io.Closer {
	if appLog == nil {
		return nopCloser{io.Discard}
	}
	return appLog
}

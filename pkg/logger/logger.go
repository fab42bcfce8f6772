package logger

import (
	"os"

	"go.uber.org/zap"
)

// Logger is the logging surface the rest of the portal depends on. The
// zap-backed implementation below is installed at init so packages can log
// before configuration is parsed.
type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(msg string, values ...any)
	Fatal(err error, values ...any)
	Printf(format string, args ...interface{})
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var active *zapLogger

func init() {
	cfg := zap.NewDevelopmentConfig()
	if os.Getenv("LOG_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	}
	if _, err := Configure(cfg); err != nil {
		panic(err)
	}
}

// Configure rebuilds the process-wide logger from the given zap config and
// installs it as the active logger.
func Configure(cfg zap.Config) (Logger, error) {
	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}
	defer l.Sync() //nolint
	active = &zapLogger{sugar: l.Sugar()}
	return active, nil
}

func GetLogger() Logger {
	if active == nil {
		panic("logger not initialized")
	}
	return active
}

func Info(msg string, values ...any)  { GetLogger().Info(msg, values...) }
func Warn(msg string, values ...any)  { GetLogger().Warn(msg, values...) }
func Error(msg string, values ...any) { GetLogger().Error(msg, values...) }
func Debug(msg string, values ...any) { GetLogger().Debug(msg, values...) }
func Panic(msg string, values ...any) { GetLogger().Panic(msg, values...) }
func Fatal(err error, values ...any)  { GetLogger().Fatal(err, values...) }

func (l *zapLogger) Info(msg string, values ...any)  { l.sugar.Infow(msg, values...) }
func (l *zapLogger) Warn(msg string, values ...any)  { l.sugar.Warnw(msg, values...) }
func (l *zapLogger) Error(msg string, values ...any) { l.sugar.Errorw(msg, values...) }
func (l *zapLogger) Debug(msg string, values ...any) { l.sugar.Debugw(msg, values...) }
func (l *zapLogger) Panic(msg string, values ...any) { l.sugar.Panicw(msg, values...) }

func (l *zapLogger) Fatal(err error, values ...any) { l.sugar.Fatalw(err.Error(), values...) }

func (l *zapLogger) Printf(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

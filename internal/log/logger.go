// Package log is the process-wide logger: a small interface over logrus with
// pattern formatting, console and rotating file appenders.
package log

import (
	"os"
	"sync"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

// LambdaEnvVar, when set, suppresses the file appender since the
// function sandbox has no durable filesystem.
const LambdaEnvVar = "LAMBDA_ENVIRONMENT"

var (
	once   sync.Once
	mu     sync.RWMutex
	logger Logger
)

// GetLogger returns the global logger, creating a stderr logger with the
// default configuration if Init was never called.
func GetLogger() Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, _ = New(DefaultConfig())
	}
	return logger
}

// Init builds the global logger from cfg. Only the first call has effect.
func Init(cfg LoggerConfig) error {
	var err error
	once.Do(func() {
		var l Logger
		l, err = New(cfg)
		if err != nil {
			return
		}
		mu.Lock()
		logger = l
		mu.Unlock()
	})
	return err
}

func inLambda() bool {
	_, ok := os.LookupEnv(LambdaEnvVar)
	return ok
}

package logger

import "sync"

type LoggerArg struct {
	Key   string
	Value string
}

type GlobalLoggerConfig struct {
	Args   []LoggerArg
	Config LoggerConfig
}

var (
	defaultLogger *Logger
	onceLogger    sync.Once
)

func InitDefaultLogger(config GlobalLoggerConfig) {
	onceLogger.Do(func() {
		defaultLogger = NewFromConfig(config.Config).WithFields(config.Args...)
	})
}

// Default returns the process-wide logger, initializing it with an empty
// config when InitDefaultLogger was never called.
func Default() *Logger {
	InitDefaultLogger(GlobalLoggerConfig{})
	return defaultLogger
}

// SetDefaultSink installs sink on the process-wide logger.
func SetDefaultSink(sink SinkFunc) {
	AddSinkToLoggerInstance(Default(), sink)
}

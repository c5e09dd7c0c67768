package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl   zerolog.Logger
	sink SinkFunc
}

func New() *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	zl := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{zl: zl}
}

func NewFromConfig(cfg LoggerConfig) *Logger {
	level := cfg.LogLevel
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return New().WithLevel(level)
}

func (l *Logger) WithOutput(w io.Writer) *Logger {
	l.zl = l.zl.Output(w)
	return l
}

func (l *Logger) WithLevel(level zerolog.Level) *Logger {
	l.zl = l.zl.Level(level)
	return l
}

// WithContext returns a child logger carrying the fields stored in ctx
// under ContextFieldsKey. The sink is shared with the parent.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zctx := l.zl.With()
	if fields, ok := ctx.Value(ContextFieldsKey).(map[string]string); ok {
		for k, v := range fields {
			zctx = zctx.Str(k, v)
		}
	}

	return &Logger{zl: zctx.Logger(), sink: l.sink}
}

// WithFields returns a child logger with the given string fields attached.
func (l *Logger) WithFields(fields ...LoggerArg) *Logger {
	zctx := l.zl.With()
	for _, f := range fields {
		zctx = zctx.Str(f.Key, f.Value)
	}

	return &Logger{zl: zctx.Logger(), sink: l.sink}
}

func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}

func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
	l.activateSink(zerolog.DebugLevel, msg)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
	l.activateSinkFormatted(zerolog.DebugLevel, format, v...)
}

func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
	l.activateSink(zerolog.InfoLevel, msg)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
	l.activateSinkFormatted(zerolog.InfoLevel, format, v...)
}

func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
	l.activateSink(zerolog.WarnLevel, msg)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
	l.activateSinkFormatted(zerolog.WarnLevel, format, v...)
}

func (l *Logger) Error(err error, msg string) {
	l.zl.Error().Err(err).Msg(msg)
	l.activateSink(zerolog.ErrorLevel, msg)
}

func (l *Logger) Errorf(err error, format string, v ...interface{}) {
	l.zl.Error().Err(err).Msgf(format, v...)
	l.activateSinkFormatted(zerolog.ErrorLevel, format, v...)
}

func (l *Logger) Fatal(err error, msg string) {
	l.activateSink(zerolog.FatalLevel, msg)
	l.zl.Fatal().Err(err).Msg(msg)
}

func (l *Logger) Fatalf(err error, format string, v ...interface{}) {
	l.activateSinkFormatted(zerolog.FatalLevel, format, v...)
	l.zl.Fatal().Err(err).Msgf(format, v...)
}

func (l *Logger) Panic(err error, msg string) {
	l.activateSink(zerolog.PanicLevel, msg)
	l.zl.Panic().Err(err).Msg(msg)
}

func (l *Logger) Panicf(err error, format string, v ...interface{}) {
	l.activateSinkFormatted(zerolog.PanicLevel, format, v...)
	l.zl.Panic().Err(err).Msgf(format, v...)
}

func (l *Logger) Log(level zerolog.Level, msg string) {
	l.zl.WithLevel(level).Msg(msg)
	l.activateSink(level, msg)
}

func (l *Logger) Logf(level zerolog.Level, format string, v ...interface{}) {
	l.zl.WithLevel(level).Msgf(format, v...)
	l.activateSinkFormatted(level, format, v...)
}

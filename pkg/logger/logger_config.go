package logger

import "github.com/rs/zerolog"

type contextKey string

const ContextFieldsKey contextKey = "logger_fields"

type LoggerConfigJson struct {
	LogLevel string `json:"log_level"`
}

type LoggerConfig struct {
	LogLevel zerolog.Level
}

// ConvertToDomain falls back to zerolog.NoLevel on an unknown level name,
// NewFromConfig then picks info.
func (lcj LoggerConfigJson) ConvertToDomain() LoggerConfig {
	level, err := zerolog.ParseLevel(lcj.LogLevel)
	if err != nil {
		level = zerolog.NoLevel
	}

	return LoggerConfig{
		LogLevel: level,
	}
}

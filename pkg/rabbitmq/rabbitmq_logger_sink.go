package rabbitmq

import (
	"credential-registry/pkg/logger"
	logger_message "credential-registry/pkg/utilities/logger"
	"credential-registry/pkg/utilities/timeutil"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func CreateRabbitmqLoggerSink(service string, publisher IRabbitmqPublisher) logger.SinkFunc {
	return func(msg string, level zerolog.Level, timestamp timeutil.TimeUTC) {
		loggerMessage := logger_message.LoggerMessage{
			Service:   service,
			Level:     level.String(),
			Message:   msg,
			Timestamp: timestamp,
		}

		if err := publisher.Publish(loggerMessage); err != nil {
			// the logger would recurse into this sink
			fmt.Fprintf(os.Stderr, "Failed to publish log message to RabbitMQ: %v\n", err)
		}
	}
}

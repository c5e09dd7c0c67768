package rabbitmq

import (
	"credential-registry/pkg/logger"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultHost       = "rabbitmq:5672"
	maxConnectRetries = 7
)

type WorkerService interface {
	GetServiceName() string
	StartService()
}

func ConnectionString(user, password, host string) string {
	return fmt.Sprintf("amqp://%s:%s@%s/", user, password, host)
}

// BackoffDelay returns the wait before retry attempt+1: 1s, 2s, 4s, ...
func BackoffDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func ConnectToRabbitmq(config RabbitmqConfig) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	queueLogger := logger.Default()
	connectionString := ConnectionString(config.User, config.Password, config.Host)

	for i := 0; i < maxConnectRetries; i++ {
		conn, err = amqp.Dial(connectionString)
		if err == nil {
			return conn, nil
		}

		waitTime := BackoffDelay(i)
		queueLogger.Warnf("Attempt %d failed: %v. Retrying in %v...", i+1, err, waitTime)
		time.Sleep(waitTime)
	}
	return nil, err
}

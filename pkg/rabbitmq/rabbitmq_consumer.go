package rabbitmq

import (
	"credential-registry/pkg/logger"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ConsumerAlias string

var (
	consumerRegistry map[ConsumerAlias]IRabbitmqConsumer
	consumerMu       sync.RWMutex
)

func GetConsumer(alias ConsumerAlias) IRabbitmqConsumer {
	consumerMu.RLock()
	defer consumerMu.RUnlock()

	return consumerRegistry[alias]
}

func RegisterConsumer(alias ConsumerAlias, consumer IRabbitmqConsumer) {
	consumerMu.Lock()
	defer consumerMu.Unlock()

	if consumerRegistry == nil {
		consumerRegistry = make(map[ConsumerAlias]IRabbitmqConsumer)
	}
	consumerRegistry[alias] = consumer
}

func InitializeConsumerRegistry(conn *amqp.Connection, consumerConfig []RabbitmqConsumerConfig) {
	for _, consumer := range consumerConfig {
		channel, err := conn.Channel()
		if err != nil {
			logger.Default().Panicf(err, "Could not obtain channel for consumer %s", consumer.ConsumerAlias)
		}

		RegisterConsumer(consumer.ConsumerAlias, NewConsumer(
			channel,
			consumer.QueueName,
			consumer.ConsumerTag,
		))
	}
}

type RabbitmqConsumer struct {
	Channel     AmqpChannel
	QueueName   string
	ConsumerTag string
}

type IRabbitmqConsumer interface {
	StartConsuming(func(amqp.Delivery)) error
}

func NewConsumer(ch AmqpChannel, queueName, consumerTag string) *RabbitmqConsumer {
	return &RabbitmqConsumer{
		Channel:     ch,
		QueueName:   queueName,
		ConsumerTag: consumerTag,
	}
}

// StartConsuming blocks until the delivery channel is closed. A panic in
// messageHandler is logged and the loop moves on to the next delivery.
func (rc *RabbitmqConsumer) StartConsuming(messageHandler func(amqp.Delivery)) error {
	msgs, err := rc.Channel.Consume(
		rc.QueueName,   // queue
		rc.ConsumerTag, // consumer
		true,           // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("register consumer %s on %s: %w", rc.ConsumerTag, rc.QueueName, err)
	}

	consumerLogger := logger.Default()
	consumerLogger.Infof("Waiting for messages in queue: %s", rc.QueueName)

	for d := range msgs {
		consumerLogger.Debugf("[%s] %s", rc.QueueName, d.Body)
		rc.handle(messageHandler, d)
	}

	consumerLogger.Warnf("[%s] Delivery channel closed for consumer %s", rc.QueueName, rc.ConsumerTag)
	return nil
}

func (rc *RabbitmqConsumer) handle(messageHandler func(amqp.Delivery), d amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			logger.Default().Errorf(
				fmt.Errorf("%v", r),
				"[%s] Recovered from panic for consumer: %s",
				rc.QueueName,
				rc.ConsumerTag,
			)
		}
	}()

	messageHandler(d)
}

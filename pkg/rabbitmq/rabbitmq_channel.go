package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpChannel is the subset of *amqp.Channel used by publishers,
// consumers and topology setup.
type AmqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Close() error
}

var _ AmqpChannel = (*amqp.Channel)(nil)

func CreateNewExchange(ch AmqpChannel, exchangeConfig RabbitmqExchangeConfig) error {
	return ch.ExchangeDeclare(
		exchangeConfig.ExchangeName,          // name
		exchangeConfig.ExchangeType.String(), // type
		true,                                 // durable
		false,                                // auto-deleted
		false,                                // internal
		false,                                // no-wait
		nil,                                  // arguments
	)
}

func CreateNewQueue(ch AmqpChannel, queueConfig RabbitmqQueueConfig) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queueConfig.QueueName, // name
		queueConfig.Durable,   // durable
		false,                 // delete when unused
		queueConfig.Exclusive, // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
}

func BindQueueToExchange(ch AmqpChannel, queueConfig RabbitmqQueueConfig) error {
	if queueConfig.ExchangeBinding == "" {
		return nil
	}

	return ch.QueueBind(
		queueConfig.QueueName,
		queueConfig.RoutingKey,
		queueConfig.ExchangeBinding,
		false,
		nil,
	)
}

// DeclareTopology declares every configured exchange, then every queue
// with its binding.
func DeclareTopology(ch AmqpChannel, config RabbitmqConfig) error {
	for _, exchangeConf := range config.Exchanges {
		if err := CreateNewExchange(ch, exchangeConf); err != nil {
			return err
		}
	}

	for _, queueConf := range config.Queues {
		if _, err := CreateNewQueue(ch, queueConf); err != nil {
			return err
		}

		if err := BindQueueToExchange(ch, queueConf); err != nil {
			return err
		}
	}

	return nil
}

package rabbitmq

import (
	"context"
	"credential-registry/pkg/logger"
	"credential-registry/pkg/utilities"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type PublisherAlias string

const publishTimeout = 5 * time.Second

var (
	publisherRegistry map[PublisherAlias]IRabbitmqPublisher
	publisherMu       sync.RWMutex
)

func GetPublisher(alias PublisherAlias) IRabbitmqPublisher {
	publisherMu.RLock()
	defer publisherMu.RUnlock()

	return publisherRegistry[alias]
}

// RegisterPublisher binds alias to publisher, replacing any previous binding.
func RegisterPublisher(alias PublisherAlias, publisher IRabbitmqPublisher) {
	publisherMu.Lock()
	defer publisherMu.Unlock()

	if publisherRegistry == nil {
		publisherRegistry = make(map[PublisherAlias]IRabbitmqPublisher)
	}
	publisherRegistry[alias] = publisher
}

func InitializePublisherRegistry(conn *amqp.Connection, publisherConfig []RabbitmqPublishersConfig) {
	for _, publisher := range publisherConfig {
		channel, err := conn.Channel()
		if err != nil {
			logger.Default().Panicf(err, "Could not obtain channel for publisher %s", publisher.PublisherAlias)
		}

		RegisterPublisher(publisher.PublisherAlias, NewPublisher(
			channel,
			publisher.Exchange,
			publisher.RoutingKey,
		))
	}
}

type RabbitmqPublisher struct {
	Channel    AmqpChannel
	Exchange   string
	RoutingKey string
	mu         sync.Mutex
}

func NewPublisher(ch AmqpChannel, exchange, routingKey string) *RabbitmqPublisher {
	return &RabbitmqPublisher{
		Channel:    ch,
		Exchange:   exchange,
		RoutingKey: routingKey,
	}
}

type IRabbitmqPublisher interface {
	Publish(body utilities.Serializable) error
}

// Publish is safe for concurrent use; amqp channels are not.
func (rp *RabbitmqPublisher) Publish(body utilities.Serializable) error {
	json, err := body.Serialize()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	rp.mu.Lock()
	defer rp.mu.Unlock()

	return rp.Channel.PublishWithContext(
		ctx,
		rp.Exchange,
		rp.RoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         json,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}

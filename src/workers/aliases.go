package workers

import "credential-registry/pkg/rabbitmq"

const (
	ProofSubmissionConsumerAlias rabbitmq.ConsumerAlias  = "ProofSubmissionConsumer"
	ProofResultPublisherAlias    rabbitmq.PublisherAlias = "ProofResultPublisher"
	ProofFailurePublisherAlias   rabbitmq.PublisherAlias = "ProofFailurePublisher"
	RegistryEventsPublisherAlias rabbitmq.PublisherAlias = "RegistryEventsPublisher"
	LogPublisherAlias            rabbitmq.PublisherAlias = "LogPublisher"
)

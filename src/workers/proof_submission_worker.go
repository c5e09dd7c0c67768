package workers

import (
	"context"
	dtocommon "credential-registry/pkg/dto_common"
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	reasoncodes "credential-registry/pkg/reason_codes"
	"credential-registry/pkg/utilities"
	"credential-registry/src/registry"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const proofSubmissionWorkerName = "ProofSubmissionWorker"

// ProofSubmissionWorker runs VerifyAndNullify for proofs arriving on the
// submission queue and reports every outcome. Failed submissions are not
// retried.
type ProofSubmissionWorker struct {
	Registry         *registry.Registry
	Consumer         rabbitmq.IRabbitmqConsumer
	ResultPublisher  rabbitmq.IRabbitmqPublisher
	FailurePublisher rabbitmq.IRabbitmqPublisher
}

func NewProofSubmissionWorker(reg *registry.Registry) rabbitmq.WorkerService {
	return &ProofSubmissionWorker{
		Registry:         reg,
		Consumer:         rabbitmq.GetConsumer(ProofSubmissionConsumerAlias),
		ResultPublisher:  rabbitmq.GetPublisher(ProofResultPublisherAlias),
		FailurePublisher: rabbitmq.GetPublisher(ProofFailurePublisherAlias),
	}
}

func (w *ProofSubmissionWorker) GetServiceName() string {
	return proofSubmissionWorkerName
}

func (w *ProofSubmissionWorker) StartService() {
	if w.Consumer == nil {
		logger.Default().Errorf(fmt.Errorf("consumer %s not registered", ProofSubmissionConsumerAlias), "%s not started", proofSubmissionWorkerName)
		return
	}
	if err := w.Consumer.StartConsuming(w.handleDelivery); err != nil {
		logger.Default().Errorf(err, "%s stopped", proofSubmissionWorkerName)
	}
}

func (w *ProofSubmissionWorker) handleDelivery(d amqp.Delivery) {
	workerLogger := logger.Default()

	var message dtocommon.ProofSubmissionDto
	responseFactory := dtocommon.NewProofFailureFactory("", d.Body)

	if err := json.Unmarshal(d.Body, &message); err != nil {
		w.publish(w.FailurePublisher, responseFactory.CreateErrorDto(err, reasoncodes.ErrUnmarshal))
		return
	}
	responseFactory = dtocommon.NewProofFailureFactory(message.EventId, d.Body)

	proof, inputs, err := registry.DecodeTransport(message.SubmissionB64, message.ProofB64, message.PublicInputs)
	if err != nil {
		w.publish(w.FailurePublisher, responseFactory.CreateErrorDto(err, registry.ReasonCodeOf(err)))
		return
	}

	receipt, err := w.Registry.VerifyAndNullify(context.Background(), registry.Principal(message.Caller), proof, inputs)
	if err != nil {
		workerLogger.Warnf("Submission %s rejected: %v", message.EventId, err)
		w.publish(w.FailurePublisher, responseFactory.CreateErrorDto(err, registry.ReasonCodeOf(err)))
		return
	}

	w.publish(w.ResultPublisher, dtocommon.ProofVerifiedDto{
		EventId:    message.EventId,
		Caller:     message.Caller,
		Nullifier:  receipt.Nullifier.String(),
		Root:       receipt.Root.String(),
		SignalHash: receipt.SignalHash.String(),
		Epoch:      receipt.Epoch,
		EventSeq:   receipt.EventSeq,
		ReasonCode: reasoncodes.InfoProofVerified,
	})
	workerLogger.Infof("Processed submission %s. Nullifier: %s, Epoch: %d", message.EventId, receipt.Nullifier, receipt.Epoch)
}

func (w *ProofSubmissionWorker) publish(publisher rabbitmq.IRabbitmqPublisher, body utilities.Serializable) {
	if publisher == nil {
		logger.Default().Errorf(fmt.Errorf("publisher not registered"), "%s dropped a message", proofSubmissionWorkerName)
		return
	}
	if err := publisher.Publish(body); err != nil {
		logger.Default().Error(err, "Can't publish to queue")
	}
}

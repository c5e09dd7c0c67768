package workers

import (
	"context"
	dtocommon "credential-registry/pkg/dto_common"
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"credential-registry/src/registry"
	"fmt"
	"sync"

	"github.com/robfig/cron"
)

const (
	eventOutboxWorkerName = "EventOutboxCronWorker"
	DefaultOutboxSchedule = "@every 5s"
	defaultOutboxBatch    = 100
)

// EventOutbox is the part of the storage layer the outbox worker drains.
type EventOutbox interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]registry.Event, error)
	MarkEventsPublished(ctx context.Context, seqs ...uint64) error
}

// EventOutboxWorker forwards committed registry events to the broker in
// Seq order. Delivery is at-least-once: an event is marked published only
// after the broker accepted it.
type EventOutboxWorker struct {
	Publisher  rabbitmq.IRabbitmqPublisher
	Repository EventOutbox
	Schedule   string
	BatchSize  int

	cron    *cron.Cron
	running sync.Mutex
}

func NewEventOutboxWorker(repository EventOutbox, schedule string) rabbitmq.WorkerService {
	if schedule == "" {
		schedule = DefaultOutboxSchedule
	}
	return &EventOutboxWorker{
		Publisher:  rabbitmq.GetPublisher(RegistryEventsPublisherAlias),
		Repository: repository,
		Schedule:   schedule,
		BatchSize:  defaultOutboxBatch,
		cron:       cron.New(),
	}
}

func (ow *EventOutboxWorker) GetServiceName() string {
	return eventOutboxWorkerName
}

func (ow *EventOutboxWorker) StartService() {
	if ow.Publisher == nil {
		logger.Default().Errorf(fmt.Errorf("publisher %s not registered", RegistryEventsPublisherAlias), "%s not started", eventOutboxWorkerName)
		return
	}

	err := ow.cron.AddFunc(ow.Schedule, func() { ow.processOutboxEvents(context.Background()) })
	if err != nil {
		logger.Default().Errorf(err, "Could not add function to %s", eventOutboxWorkerName)
		return
	}

	ow.cron.Start()
}

func (ow *EventOutboxWorker) Stop() {
	ow.cron.Stop()
}

// processOutboxEvents publishes one batch and returns how many events were
// marked published. A run that overlaps a previous one is skipped.
func (ow *EventOutboxWorker) processOutboxEvents(ctx context.Context) int {
	if !ow.running.TryLock() {
		return 0
	}
	defer ow.running.Unlock()

	outboxLogger := logger.Default()
	if ow.Publisher == nil {
		outboxLogger.Warnf("%s has no publisher, events stay in the outbox", eventOutboxWorkerName)
		return 0
	}

	events, err := ow.Repository.GetUnpublishedEvents(ctx, ow.BatchSize)
	if err != nil {
		outboxLogger.Error(err, "Could not read events from database")
		return 0
	}

	published := make([]uint64, 0, len(events))
	for _, e := range events {
		if err := ow.Publisher.Publish(mapEventToDto(e)); err != nil {
			// later events wait so consumers never observe a gap
			outboxLogger.Errorf(err, "Can't publish event %d to queue", e.Seq)
			break
		}
		published = append(published, e.Seq)
	}

	if len(published) == 0 {
		return 0
	}
	if err := ow.Repository.MarkEventsPublished(ctx, published...); err != nil {
		outboxLogger.Errorf(err, "Could not mark %d events as published", len(published))
		return 0
	}

	outboxLogger.Debugf("Published %d registry events", len(published))
	return len(published)
}

func hashOrEmpty(h registry.Hash256) string {
	if h.IsZero() {
		return ""
	}
	return h.String()
}

func mapEventToDto(e registry.Event) dtocommon.RegistryEventDto {
	return dtocommon.RegistryEventDto{
		Seq:          e.Seq,
		Id:           e.Id.String(),
		Kind:         string(e.Kind),
		Caller:       string(e.Caller),
		Epoch:        e.Epoch,
		Root:         hashOrEmpty(e.Root),
		Nullifier:    hashOrEmpty(e.Nullifier),
		SignalHash:   hashOrEmpty(e.SignalHash),
		VerifierKind: string(e.VerifierKind),
		CreatedAt:    e.CreatedAt.UnixMilli(),
	}
}

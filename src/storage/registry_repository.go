package storage

import (
	"context"
	"credential-registry/src/registry"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RegistryRepository is the gorm-backed registry.Store. It also serves
// the event outbox.
type RegistryRepository interface {
	registry.Store
	GetUnpublishedEvents(ctx context.Context, limit int) ([]registry.Event, error)
	MarkEventsPublished(ctx context.Context, seqs ...uint64) error
}

type registryRepository struct {
	db *gorm.DB
}

func NewRegistryRepository(db *gorm.DB) RegistryRepository {
	return &registryRepository{db: db}
}

func (rr *registryRepository) Commit(ctx context.Context, t registry.Transition) error {
	return rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.Epoch != nil {
			record := newEpochRecord(*t.Epoch)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("insert epoch %d: %w", t.Epoch.Index, err)
			}
		}

		if t.Consumed != nil {
			record := newNullifierRecord(*t.Consumed)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("insert nullifier %s: %w", t.Consumed.Nullifier, err)
			}
		}

		if t.Verifier != nil {
			record := newVerifierBindingRecord(*t.Verifier, t.Event)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("insert verifier binding %d: %w", t.Event.Seq, err)
			}
		}

		event := newEventRecord(t.Event)
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("insert event %d: %w", t.Event.Seq, err)
		}

		return nil
	})
}

func (rr *registryRepository) Load(ctx context.Context) (registry.Snapshot, error) {
	var snapshot registry.Snapshot
	db := rr.db.WithContext(ctx)

	var epochs []EpochRecord
	if err := db.Order("epoch_index asc").Find(&epochs).Error; err != nil {
		return snapshot, fmt.Errorf("read epochs: %w", err)
	}
	for _, record := range epochs {
		epoch, err := record.MapToDomain()
		if err != nil {
			return snapshot, err
		}
		snapshot.Epochs = append(snapshot.Epochs, epoch)
	}

	var nullifiers []NullifierRecord
	if err := db.Order("id asc").Find(&nullifiers).Error; err != nil {
		return snapshot, fmt.Errorf("read nullifiers: %w", err)
	}
	for _, record := range nullifiers {
		consumed, err := record.MapToDomain()
		if err != nil {
			return snapshot, err
		}
		snapshot.Consumed = append(snapshot.Consumed, consumed)
	}

	var bindings []VerifierBindingRecord
	if err := db.Order("event_seq desc").Limit(1).Find(&bindings).Error; err != nil {
		return snapshot, fmt.Errorf("read verifier binding: %w", err)
	}
	if len(bindings) > 0 {
		binding := bindings[0].MapToDomain()
		snapshot.Verifier = &binding
	}

	var events []EventRecord
	if err := db.Order("seq asc").Find(&events).Error; err != nil {
		return snapshot, fmt.Errorf("read events: %w", err)
	}
	for _, record := range events {
		event, err := record.MapToDomain()
		if err != nil {
			return snapshot, err
		}
		snapshot.Events = append(snapshot.Events, event)
	}

	return snapshot, nil
}

func (rr *registryRepository) GetUnpublishedEvents(ctx context.Context, limit int) ([]registry.Event, error) {
	var records []EventRecord
	query := rr.db.WithContext(ctx).
		Where("published = ?", false).
		Order("seq asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read unpublished events: %w", err)
	}

	events := make([]registry.Event, 0, len(records))
	for _, record := range records {
		event, err := record.MapToDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (rr *registryRepository) MarkEventsPublished(ctx context.Context, seqs ...uint64) error {
	if len(seqs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return rr.db.WithContext(ctx).
		Model(&EventRecord{}).
		Where("seq IN ?", seqs).
		Updates(map[string]any{"published": true, "published_at": &now}).Error
}

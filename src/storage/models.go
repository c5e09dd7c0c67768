package storage

import (
	"credential-registry/src/registry"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EpochRecord struct {
	Index       uint64 `gorm:"column:epoch_index;primaryKey;autoIncrement:false"`
	Root        string `gorm:"uniqueIndex;size:66;not null"`
	PublishedAt time.Time
}

func (EpochRecord) TableName() string {
	return "registry_epochs"
}

type NullifierRecord struct {
	Id         uint   `gorm:"primaryKey;autoIncrement"`
	Nullifier  string `gorm:"uniqueIndex;size:66;not null"`
	Root       string `gorm:"size:66;not null"`
	SignalHash string `gorm:"size:66"`
	Caller     string
	ConsumedAt time.Time
}

func (NullifierRecord) TableName() string {
	return "registry_nullifiers"
}

// VerifierBindingRecord keeps every owner rebind. The row with the highest
// EventSeq is the live binding.
type VerifierBindingRecord struct {
	EventSeq     uint64 `gorm:"primaryKey;autoIncrement:false"`
	Kind         string `gorm:"size:16;not null"`
	VerifyingKey []byte
	BoundAt      time.Time
}

func (VerifierBindingRecord) TableName() string {
	return "registry_verifier_bindings"
}

// EventRecord doubles as the outbox: Published flips once the event went
// out to the broker.
type EventRecord struct {
	Seq          uint64 `gorm:"primaryKey;autoIncrement:false"`
	EventId      string `gorm:"uniqueIndex;size:36;not null"`
	Kind         string `gorm:"size:32;not null"`
	Caller       string
	Epoch        uint64
	Root         string `gorm:"size:66"`
	Nullifier    string `gorm:"size:66"`
	SignalHash   string `gorm:"size:66"`
	VerifierKind string `gorm:"size:16"`
	CreatedAt    time.Time
	Published    bool `gorm:"index;not null;default:false"`
	PublishedAt  *time.Time
}

func (EventRecord) TableName() string {
	return "registry_events"
}

func hashOrEmpty(h registry.Hash256) string {
	if h.IsZero() {
		return ""
	}
	return h.String()
}

func parseOptionalHash(s string) (registry.Hash256, error) {
	if s == "" {
		return registry.ZeroHash, nil
	}
	return registry.ParseHash256(s)
}

func newEpochRecord(e registry.Epoch) EpochRecord {
	return EpochRecord{
		Index:       e.Index,
		Root:        e.Root.String(),
		PublishedAt: e.PublishedAt,
	}
}

func (er EpochRecord) MapToDomain() (registry.Epoch, error) {
	root, err := registry.ParseHash256(er.Root)
	if err != nil {
		return registry.Epoch{}, fmt.Errorf("epoch %d: %w", er.Index, err)
	}
	return registry.Epoch{
		Index:       er.Index,
		Root:        root,
		PublishedAt: er.PublishedAt.UTC(),
	}, nil
}

func newNullifierRecord(c registry.ConsumedNullifier) NullifierRecord {
	return NullifierRecord{
		Nullifier:  c.Nullifier.String(),
		Root:       c.Root.String(),
		SignalHash: c.SignalHash.String(),
		Caller:     string(c.Caller),
		ConsumedAt: c.ConsumedAt,
	}
}

func (nr NullifierRecord) MapToDomain() (registry.ConsumedNullifier, error) {
	nullifier, err := registry.ParseHash256(nr.Nullifier)
	if err != nil {
		return registry.ConsumedNullifier{}, err
	}
	root, err := registry.ParseHash256(nr.Root)
	if err != nil {
		return registry.ConsumedNullifier{}, err
	}
	signalHash, err := parseOptionalHash(nr.SignalHash)
	if err != nil {
		return registry.ConsumedNullifier{}, err
	}

	return registry.ConsumedNullifier{
		Nullifier:  nullifier,
		Root:       root,
		SignalHash: signalHash,
		Caller:     registry.Principal(nr.Caller),
		ConsumedAt: nr.ConsumedAt.UTC(),
	}, nil
}

func newVerifierBindingRecord(b registry.VerifierBinding, event registry.Event) VerifierBindingRecord {
	return VerifierBindingRecord{
		EventSeq:     event.Seq,
		Kind:         string(b.Kind),
		VerifyingKey: b.VerifyingKey,
		BoundAt:      event.CreatedAt,
	}
}

func (vr VerifierBindingRecord) MapToDomain() registry.VerifierBinding {
	return registry.VerifierBinding{
		Kind:         registry.VerifierKind(vr.Kind),
		VerifyingKey: vr.VerifyingKey,
	}
}

func newEventRecord(e registry.Event) EventRecord {
	return EventRecord{
		Seq:          e.Seq,
		EventId:      e.Id.String(),
		Kind:         string(e.Kind),
		Caller:       string(e.Caller),
		Epoch:        e.Epoch,
		Root:         hashOrEmpty(e.Root),
		Nullifier:    hashOrEmpty(e.Nullifier),
		SignalHash:   hashOrEmpty(e.SignalHash),
		VerifierKind: string(e.VerifierKind),
		CreatedAt:    e.CreatedAt,
	}
}

func (er EventRecord) MapToDomain() (registry.Event, error) {
	id, err := uuid.Parse(er.EventId)
	if err != nil {
		return registry.Event{}, fmt.Errorf("event %d: %w", er.Seq, err)
	}
	root, err := parseOptionalHash(er.Root)
	if err != nil {
		return registry.Event{}, err
	}
	nullifier, err := parseOptionalHash(er.Nullifier)
	if err != nil {
		return registry.Event{}, err
	}
	signalHash, err := parseOptionalHash(er.SignalHash)
	if err != nil {
		return registry.Event{}, err
	}

	return registry.Event{
		Seq:          er.Seq,
		Id:           id,
		Kind:         registry.EventKind(er.Kind),
		Caller:       registry.Principal(er.Caller),
		Epoch:        er.Epoch,
		Root:         root,
		Nullifier:    nullifier,
		SignalHash:   signalHash,
		VerifierKind: registry.VerifierKind(er.VerifierKind),
		CreatedAt:    er.CreatedAt.UTC(),
	}, nil
}

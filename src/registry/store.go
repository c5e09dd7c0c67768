package registry

import "context"

// VerifierBinding is the stored form of the bound verifier. VerifyingKey
// is empty for kinds that need no key.
type VerifierBinding struct {
	Kind         VerifierKind
	VerifyingKey []byte
}

// Transition is everything one successful operation writes. Exactly one of
// Epoch, Consumed and Verifier is set.
type Transition struct {
	Epoch    *Epoch
	Consumed *ConsumedNullifier
	Verifier *VerifierBinding
	Event    Event
}

// Snapshot is the persisted registry state. Verifier is the latest
// binding, nil while the owner never rebound the verifier.
type Snapshot struct {
	Epochs   []Epoch
	Consumed []ConsumedNullifier
	Verifier *VerifierBinding
	Events   []Event
}

// Store persists registry transitions. Commit must be all-or-nothing: on
// error nothing of t may be visible to a later Load.
type Store interface {
	Commit(ctx context.Context, t Transition) error
	Load(ctx context.Context) (Snapshot, error)
}

package registry

import (
	"context"
	"credential-registry/pkg/logger"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the credential registry state machine. Every state
// transition holds mu for its whole check-verify-commit sequence, so
// transitions are serialized and all-or-nothing.
type Registry struct {
	mu sync.RWMutex

	issuer Principal
	owner  Principal

	roots      *RootStore
	nullifiers *NullifierLedger
	verifier   Verifier
	events     []Event

	store  Store
	now    func() time.Time
	logger *logger.Logger
}

type Option func(*Registry)

func WithStore(store Store) Option {
	return func(r *Registry) {
		r.store = store
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

func New(issuer, owner Principal, verifier Verifier, opts ...Option) (*Registry, error) {
	if issuer == "" || owner == "" {
		return nil, fmt.Errorf("%w: issuer and owner are required", ErrMalformedInput)
	}
	if verifier == nil {
		return nil, fmt.Errorf("%w: nil verifier", ErrMalformedInput)
	}

	r := &Registry{
		issuer:     issuer,
		owner:      owner,
		roots:      NewRootStore(),
		nullifiers: NewNullifierLedger(),
		verifier:   verifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Default().WithFields(logger.LoggerArg{Key: "component", Value: "registry"})
	}

	return r, nil
}

// Restore replaces the in-memory state with the store's snapshot. A
// stored verifier binding replaces the verifier passed to New.
func (r *Registry) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load snapshot: %w", errStore, err)
	}

	roots := NewRootStore()
	sort.Slice(snapshot.Epochs, func(i, j int) bool { return snapshot.Epochs[i].Index < snapshot.Epochs[j].Index })
	for _, e := range snapshot.Epochs {
		if e.Index != roots.CurrentEpoch()+1 {
			return fmt.Errorf("%w: epoch %d out of sequence", errStore, e.Index)
		}
		if err := roots.check(e.Root); err != nil {
			return fmt.Errorf("%w: epoch %d: %w", errStore, e.Index, err)
		}
		roots.apply(e)
	}

	nullifiers := NewNullifierLedger()
	for _, c := range snapshot.Consumed {
		if err := nullifiers.markConsumed(c); err != nil {
			return fmt.Errorf("%w: %w", errStore, err)
		}
	}

	var verifier Verifier
	if snapshot.Verifier != nil {
		if verifier, err = ResolveVerifier(snapshot.Verifier.Kind, snapshot.Verifier.VerifyingKey); err != nil {
			return fmt.Errorf("%w: verifier binding: %v", errStore, err)
		}
	}

	events := append([]Event(nil), snapshot.Events...)
	sort.Slice(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
	for i, e := range events {
		if e.Seq != uint64(i)+1 {
			return fmt.Errorf("%w: event %d out of sequence", errStore, e.Seq)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots = roots
	r.nullifiers = nullifiers
	r.events = events
	if verifier != nil {
		if verifier.Kind() != r.verifier.Kind() {
			r.logger.Warnf("Stored %s verifier binding overrides configured %s verifier", verifier.Kind(), r.verifier.Kind())
		}
		r.verifier = verifier
	}

	r.logger.Infof("Restored registry state: %d epochs, %d nullifiers, %d events",
		roots.CurrentEpoch(), nullifiers.Len(), len(events))
	return nil
}

func (r *Registry) newEvent(kind EventKind, caller Principal, at time.Time) Event {
	return Event{
		Seq:       uint64(len(r.events)) + 1,
		Id:        uuid.New(),
		Kind:      kind,
		Caller:    caller,
		CreatedAt: at,
	}
}

func (r *Registry) commit(ctx context.Context, t Transition) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Commit(ctx, t); err != nil {
		return fmt.Errorf("%w: commit %s: %w", errStore, t.Event.Kind, err)
	}
	return nil
}

// UpdateRoot publishes root as the current commitment. Issuer only.
func (r *Registry) UpdateRoot(ctx context.Context, caller Principal, root Hash256) (Epoch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.issuer {
		return Epoch{}, fmt.Errorf("%w: %s is not the issuer", ErrUnauthorized, caller)
	}

	now := r.now()
	epoch, err := r.roots.next(root, now)
	if err != nil {
		return Epoch{}, err
	}

	event := r.newEvent(EventRootUpdated, caller, now)
	event.Epoch = epoch.Index
	event.Root = root

	if err := r.commit(ctx, Transition{Epoch: &epoch, Event: event}); err != nil {
		return Epoch{}, err
	}

	r.roots.apply(epoch)
	r.events = append(r.events, event)

	r.logger.Infof("Root %s published as epoch %d", root, epoch.Index)
	return epoch, nil
}

// VerifyAndNullify checks inputs against the registry state and the bound
// verifier, then consumes the nullifier. The nullifier is consumed only
// after the proof verified, so a bogus proof cannot burn it.
func (r *Registry) VerifyAndNullify(ctx context.Context, caller Principal, proof Proof, inputs PublicInputs) (Receipt, error) {
	root, signalHash, nullifier, err := inputs.Destructure()
	if err != nil {
		return Receipt{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.roots.IsValidRoot(root) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	if r.nullifiers.IsUsed(nullifier) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrNullifierAlreadyUsed, nullifier)
	}
	if !r.verifier.Verify(proof, inputs) {
		return Receipt{}, fmt.Errorf("%w: rejected by %s verifier", ErrInvalidProof, r.verifier.Kind())
	}

	now := r.now()
	entry := ConsumedNullifier{
		Nullifier:  nullifier,
		Root:       root,
		SignalHash: signalHash,
		Caller:     caller,
		ConsumedAt: now,
	}
	epoch, _ := r.roots.EpochOf(root)

	event := r.newEvent(EventProofVerified, caller, now)
	event.Epoch = epoch.Index
	event.Root = root
	event.Nullifier = nullifier
	event.SignalHash = signalHash

	if err := r.commit(ctx, Transition{Consumed: &entry, Event: event}); err != nil {
		return Receipt{}, err
	}
	if err := r.nullifiers.markConsumed(entry); err != nil {
		return Receipt{}, err
	}
	r.events = append(r.events, event)

	r.logger.Infof("Proof verified for nullifier %s against epoch %d", nullifier, epoch.Index)
	return Receipt{
		Nullifier:  nullifier,
		Root:       root,
		SignalHash: signalHash,
		Epoch:      epoch.Index,
		EventSeq:   event.Seq,
	}, nil
}

// SetVerifier rebinds the verification backend. Owner only. With a store
// attached the binding is persisted, so custom verifiers are refused.
func (r *Registry) SetVerifier(ctx context.Context, caller Principal, verifier Verifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller)
	}
	if verifier == nil {
		return fmt.Errorf("%w: nil verifier", ErrMalformedInput)
	}

	event := r.newEvent(EventVerifierUpdated, caller, r.now())
	event.VerifierKind = verifier.Kind()

	t := Transition{Event: event}
	if r.store != nil {
		binding, err := BindingOf(verifier)
		if err != nil {
			return err
		}
		t.Verifier = &binding
	}

	if err := r.commit(ctx, t); err != nil {
		return err
	}

	previous := r.verifier.Kind()
	r.verifier = verifier
	r.events = append(r.events, event)

	r.logger.Infof("Verifier rebound from %s to %s", previous, verifier.Kind())
	return nil
}

func (r *Registry) CurrentRoot() Hash256 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roots.CurrentRoot()
}

func (r *Registry) CurrentEpoch() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roots.CurrentEpoch()
}

func (r *Registry) IsValidRoot(root Hash256) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roots.IsValidRoot(root)
}

func (r *Registry) EpochOf(root Hash256) (Epoch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roots.EpochOf(root)
}

func (r *Registry) Epochs() []Epoch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roots.Epochs()
}

func (r *Registry) IsUsed(nullifier Hash256) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nullifiers.IsUsed(nullifier)
}

func (r *Registry) Nullifier(nullifier Hash256) (ConsumedNullifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nullifiers.Lookup(nullifier)
}

// Events returns up to limit events with Seq >= from. A non-positive limit
// means no limit.
func (r *Registry) Events(from uint64, limit int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if from == 0 {
		from = 1
	}
	if from > uint64(len(r.events)) {
		return []Event{}
	}

	tail := r.events[from-1:]
	if limit > 0 && limit < len(tail) {
		tail = tail[:limit]
	}
	return append([]Event(nil), tail...)
}

func (r *Registry) VerifierKind() VerifierKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verifier.Kind()
}

func (r *Registry) Issuer() Principal {
	return r.issuer
}

func (r *Registry) Owner() Principal {
	return r.owner
}

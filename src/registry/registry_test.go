package registry_test

import (
	"context"
	"credential-registry/src/registry"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issuer registry.Principal = "issuer"
	owner  registry.Principal = "owner"
	prover registry.Principal = "prover"
)

var (
	r1 = registry.FieldElement("epoch-1-root")
	r2 = registry.FieldElement("epoch-2-root")
	s  = registry.ComputeSignalHash("app-1", "over-18")
	n  = registry.ComputeNullifier("alice-secret", "app-1")
	n2 = registry.ComputeNullifier("bob-secret", "app-1")

	proof = registry.Proof("opaque")
)

type memStore struct {
	mu       sync.Mutex
	snapshot registry.Snapshot
	failNext error
	commits  int
}

func (m *memStore) Commit(_ context.Context, t registry.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	if t.Epoch != nil {
		m.snapshot.Epochs = append(m.snapshot.Epochs, *t.Epoch)
	}
	if t.Consumed != nil {
		m.snapshot.Consumed = append(m.snapshot.Consumed, *t.Consumed)
	}
	if t.Verifier != nil {
		m.snapshot.Verifier = t.Verifier
	}
	m.snapshot.Events = append(m.snapshot.Events, t.Event)
	m.commits++
	return nil
}

func (m *memStore) Load(context.Context) (registry.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func newRegistry(t *testing.T, v registry.Verifier, opts ...registry.Option) *registry.Registry {
	t.Helper()
	reg, err := registry.New(issuer, owner, v, opts...)
	require.NoError(t, err)
	return reg
}

func publish(t *testing.T, reg *registry.Registry, root registry.Hash256) registry.Epoch {
	t.Helper()
	epoch, err := reg.UpdateRoot(context.Background(), issuer, root)
	require.NoError(t, err)
	return epoch
}

func rejecting() registry.Verifier {
	return registry.VerifierFunc(func(registry.Proof, registry.PublicInputs) bool { return false })
}

func TestScenarioAPublishThenVerify(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()

	epoch := publish(t, reg, r1)
	assert.Equal(t, uint64(1), epoch.Index)

	receipt, err := reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)

	assert.True(t, reg.IsUsed(n))
	assert.Equal(t, r1, reg.CurrentRoot())
	assert.Equal(t, n, receipt.Nullifier)
	assert.Equal(t, r1, receipt.Root)
	assert.Equal(t, s, receipt.SignalHash)
	assert.Equal(t, uint64(1), receipt.Epoch)

	events := reg.Events(0, 0)
	require.Len(t, events, 2)
	assert.Equal(t, registry.EventRootUpdated, events[0].Kind)
	assert.Equal(t, uint64(1), events[0].Epoch)
	assert.Equal(t, r1, events[0].Root)
	assert.Equal(t, registry.EventProofVerified, events[1].Kind)
	assert.Equal(t, prover, events[1].Caller)
	assert.Equal(t, n, events[1].Nullifier)
	assert.Equal(t, r1, events[1].Root)
	assert.Equal(t, receipt.EventSeq, events[1].Seq)
}

func TestScenarioBReplayFails(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()
	publish(t, reg, r1)

	inputs := registry.NewPublicInputs(r1, s, n)
	_, err := reg.VerifyAndNullify(ctx, prover, proof, inputs)
	require.NoError(t, err)

	_, err = reg.VerifyAndNullify(ctx, prover, proof, inputs)
	assert.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)
	assert.Len(t, reg.Events(0, 0), 2, "failed replay must not emit an event")
}

func TestScenarioCUnknownRootFails(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	publish(t, reg, r1)

	_, err := reg.VerifyAndNullify(context.Background(), prover, proof, registry.NewPublicInputs(r2, s, n2))
	assert.ErrorIs(t, err, registry.ErrInvalidRoot)
	assert.False(t, reg.IsUsed(n2))
}

func TestScenarioDDuplicateRootFails(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	publish(t, reg, r1)

	_, err := reg.UpdateRoot(context.Background(), issuer, r1)
	assert.ErrorIs(t, err, registry.ErrDuplicateRoot)
	assert.Equal(t, uint64(1), reg.CurrentEpoch())
	assert.Equal(t, r1, reg.CurrentRoot())
}

func TestCurrentRootTracksLastAcceptedRoot(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())

	assert.Equal(t, registry.ZeroHash, reg.CurrentRoot())
	assert.False(t, reg.IsValidRoot(registry.ZeroHash))

	publish(t, reg, r1)
	publish(t, reg, r2)
	_, err := reg.UpdateRoot(context.Background(), issuer, r1)
	require.ErrorIs(t, err, registry.ErrDuplicateRoot)

	assert.Equal(t, r2, reg.CurrentRoot())
	assert.True(t, reg.IsValidRoot(r1), "old roots stay valid after rotation")
	assert.True(t, reg.IsValidRoot(r2))

	epochs := reg.Epochs()
	require.Len(t, epochs, 2)
	assert.Equal(t, uint64(1), epochs[0].Index)
	assert.Equal(t, uint64(2), epochs[1].Index)

	epoch, ok := reg.EpochOf(r1)
	require.True(t, ok)
	assert.Equal(t, uint64(1), epoch.Index)
}

func TestProofAgainstOlderRootVerifies(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	publish(t, reg, r1)
	publish(t, reg, r2)

	receipt, err := reg.VerifyAndNullify(context.Background(), prover, proof, registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Epoch)
}

func TestZeroRootRejected(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	_, err := reg.UpdateRoot(context.Background(), issuer, registry.ZeroHash)
	assert.ErrorIs(t, err, registry.ErrMalformedInput)
	assert.Empty(t, reg.Events(0, 0))
}

func TestAdministrativeOperationsAreGated(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()

	_, err := reg.UpdateRoot(ctx, owner, r1)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
	_, err = reg.UpdateRoot(ctx, prover, r1)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
	assert.False(t, reg.IsValidRoot(r1))

	err = reg.SetVerifier(ctx, issuer, rejecting())
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
	assert.Equal(t, registry.VerifierMock, reg.VerifierKind())

	err = reg.SetVerifier(ctx, owner, nil)
	assert.ErrorIs(t, err, registry.ErrMalformedInput)

	assert.Empty(t, reg.Events(0, 0))
}

func TestFailedAttemptsNeverMutateLedger(t *testing.T) {
	reg := newRegistry(t, rejecting())
	ctx := context.Background()
	publish(t, reg, r1)

	tests := []struct {
		name     string
		inputs   registry.PublicInputs
		expected error
	}{
		{"invalid proof", registry.NewPublicInputs(r1, s, n), registry.ErrInvalidProof},
		{"invalid root", registry.NewPublicInputs(r2, s, n), registry.ErrInvalidRoot},
		{"too few inputs", registry.PublicInputs{r1, s}, registry.ErrMalformedInput},
		{"too many inputs", registry.PublicInputs{r1, s, n, n2}, registry.ErrMalformedInput},
		{"no inputs", nil, registry.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.VerifyAndNullify(ctx, prover, proof, tt.inputs)
			assert.ErrorIs(t, err, tt.expected)
			assert.False(t, reg.IsUsed(n))
			assert.Len(t, reg.Events(0, 0), 1)
		})
	}
}

func TestConsumedNullifierFailsEvenWithValidProof(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()
	publish(t, reg, r1)
	publish(t, reg, r2)

	_, err := reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)

	otherSignal := registry.ComputeSignalHash("app-1", "resident")
	_, err = reg.VerifyAndNullify(ctx, "someone-else", registry.Proof("different"), registry.NewPublicInputs(r2, otherSignal, n))
	assert.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)
	assert.True(t, reg.IsUsed(n), "isUsed never reverts")
}

func TestCheapChecksPrecedeVerification(t *testing.T) {
	var calls atomic.Int32
	counting := registry.VerifierFunc(func(registry.Proof, registry.PublicInputs) bool {
		calls.Add(1)
		return true
	})
	reg := newRegistry(t, counting)
	ctx := context.Background()
	publish(t, reg, r1)

	_, err := reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r2, s, n))
	require.ErrorIs(t, err, registry.ErrInvalidRoot)
	assert.Equal(t, int32(0), calls.Load())

	_, err = reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBogusProofCannotBurnNullifier(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()
	publish(t, reg, r1)

	require.NoError(t, reg.SetVerifier(ctx, owner, registry.VerifierFunc(
		func(p registry.Proof, _ registry.PublicInputs) bool { return string(p) == "honest" },
	)))

	_, err := reg.VerifyAndNullify(ctx, "attacker", registry.Proof("forged"), registry.NewPublicInputs(r1, s, n))
	require.ErrorIs(t, err, registry.ErrInvalidProof)

	_, err = reg.VerifyAndNullify(ctx, prover, registry.Proof("honest"), registry.NewPublicInputs(r1, s, n))
	assert.NoError(t, err)
}

func TestMockVerifierRejectsZeroNullifier(t *testing.T) {
	v := registry.NewMockVerifier()
	assert.True(t, v.Verify(nil, registry.NewPublicInputs(r1, s, n)))
	assert.False(t, v.Verify(nil, registry.NewPublicInputs(r1, s, registry.ZeroHash)))
	assert.False(t, v.Verify(nil, registry.PublicInputs{r1}))
}

func TestSetVerifierRebindsAndEmitsEvent(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	ctx := context.Background()
	publish(t, reg, r1)

	require.NoError(t, reg.SetVerifier(ctx, owner, rejecting()))
	assert.Equal(t, registry.VerifierCustom, reg.VerifierKind())

	_, err := reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	assert.ErrorIs(t, err, registry.ErrInvalidProof)

	events := reg.Events(2, 0)
	require.Len(t, events, 1)
	assert.Equal(t, registry.EventVerifierUpdated, events[0].Kind)
	assert.Equal(t, registry.VerifierCustom, events[0].VerifierKind)
	assert.Equal(t, owner, events[0].Caller)
}

func TestConcurrentConsumptionHasOneWinner(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	publish(t, reg, r1)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		replays   atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := reg.VerifyAndNullify(context.Background(), prover, proof, registry.NewPublicInputs(r1, s, n))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, registry.ErrNullifierAlreadyUsed):
				replays.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), replays.Load())
	assert.Len(t, reg.Events(0, 0), 2)
}

func TestStoreFailureAbortsTransition(t *testing.T) {
	store := &memStore{}
	reg := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store))
	ctx := context.Background()

	store.failNext = errors.New("disk full")
	_, err := reg.UpdateRoot(ctx, issuer, r1)
	require.Error(t, err)
	assert.Equal(t, "StorageError", string(registry.ReasonCodeOf(err)))
	assert.False(t, reg.IsValidRoot(r1))
	assert.Empty(t, reg.Events(0, 0))

	publish(t, reg, r1)

	store.failNext = errors.New("connection reset")
	_, err = reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.Error(t, err)
	assert.False(t, reg.IsUsed(n))
	assert.Len(t, reg.Events(0, 0), 1)

	_, err = reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	assert.NoError(t, err, "a failed commit leaves the nullifier usable")
}

func TestRestoreRebuildsState(t *testing.T) {
	store := &memStore{}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	reg := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store), registry.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	publish(t, reg, r1)
	publish(t, reg, r2)
	_, err := reg.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)
	assert.Equal(t, 3, store.commits)

	restored := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store))
	require.NoError(t, restored.Restore(ctx))

	assert.Equal(t, r2, restored.CurrentRoot())
	assert.True(t, restored.IsValidRoot(r1))
	assert.True(t, restored.IsUsed(n))
	assert.Equal(t, reg.Events(0, 0), restored.Events(0, 0))

	consumed, ok := restored.Nullifier(n)
	require.True(t, ok)
	assert.Equal(t, prover, consumed.Caller)
	assert.Equal(t, clock, consumed.ConsumedAt)

	_, err = restored.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r2, s, n))
	assert.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)

	receipt, err := restored.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r2, s, n2))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), receipt.EventSeq)
}

func TestRestoreRebindsStoredVerifier(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	reg := newRegistry(t, rejecting(), registry.WithStore(store))
	publish(t, reg, r1)
	require.NoError(t, reg.SetVerifier(ctx, owner, registry.NewMockVerifier()))
	require.NotNil(t, store.snapshot.Verifier)
	assert.Equal(t, registry.VerifierMock, store.snapshot.Verifier.Kind)

	restarted := newRegistry(t, rejecting(), registry.WithStore(store))
	require.NoError(t, restarted.Restore(ctx))
	assert.Equal(t, registry.VerifierMock, restarted.VerifierKind())

	_, err := restarted.VerifyAndNullify(ctx, prover, proof, registry.NewPublicInputs(r1, s, n))
	assert.NoError(t, err)
}

func TestRestoreKeepsConfiguredVerifierWithoutBinding(t *testing.T) {
	store := &memStore{}
	reg := newRegistry(t, rejecting(), registry.WithStore(store))
	publish(t, reg, r1)

	restarted := newRegistry(t, rejecting(), registry.WithStore(store))
	require.NoError(t, restarted.Restore(context.Background()))
	assert.Equal(t, registry.VerifierCustom, restarted.VerifierKind())
}

func TestRestoreRejectsUnusableBinding(t *testing.T) {
	store := &memStore{snapshot: registry.Snapshot{
		Verifier: &registry.VerifierBinding{Kind: registry.VerifierGroth16},
	}}
	reg := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store))
	err := reg.Restore(context.Background())
	require.Error(t, err)
	assert.Equal(t, "StorageError", string(registry.ReasonCodeOf(err)))
	assert.Equal(t, registry.VerifierMock, reg.VerifierKind())
}

func TestSetVerifierRefusesUnpersistableVerifier(t *testing.T) {
	store := &memStore{}
	reg := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store))

	err := reg.SetVerifier(context.Background(), owner, rejecting())
	assert.ErrorIs(t, err, registry.ErrMalformedInput)
	assert.Equal(t, registry.VerifierMock, reg.VerifierKind())
	assert.Zero(t, store.commits)
	assert.Empty(t, reg.Events(0, 0))
}

func TestRestoreRejectsGappedEpochs(t *testing.T) {
	store := &memStore{snapshot: registry.Snapshot{
		Epochs: []registry.Epoch{{Index: 1, Root: r1}, {Index: 3, Root: r2}},
	}}
	reg := newRegistry(t, registry.NewMockVerifier(), registry.WithStore(store))
	assert.Error(t, reg.Restore(context.Background()))
}

func TestEventsPaging(t *testing.T) {
	reg := newRegistry(t, registry.NewMockVerifier())
	for i := 0; i < 5; i++ {
		publish(t, reg, registry.FieldElement(time.Duration(i).String()))
	}

	page := reg.Events(2, 2)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(2), page[0].Seq)
	assert.Equal(t, uint64(3), page[1].Seq)

	assert.Len(t, reg.Events(5, 10), 1)
	assert.Empty(t, reg.Events(6, 0))
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := registry.New("", owner, registry.NewMockVerifier())
	assert.ErrorIs(t, err, registry.ErrMalformedInput)
	_, err = registry.New(issuer, owner, nil)
	assert.ErrorIs(t, err, registry.ErrMalformedInput)
}

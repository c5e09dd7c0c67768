package storage_test

import (
	"context"
	"credential-registry/pkg/zkp"
	"credential-registry/src/registry"
	"credential-registry/src/storage"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	r1 = registry.FieldElement("epoch-1-root")
	r2 = registry.FieldElement("epoch-2-root")
	s  = registry.ComputeSignalHash("app-1", "over-18")
	n  = registry.ComputeNullifier("alice-secret", "app-1")

	fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.ConnectToDatabase(storage.DatabaseConfig{
		Driver:           storage.DriverSqlite,
		ConnectionString: filepath.Join(t.TempDir(), "registry.db"),
		Migrate:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newPersistentRegistry(t *testing.T, repo storage.RegistryRepository) *registry.Registry {
	t.Helper()
	reg, err := registry.New("issuer", "owner", registry.NewMockVerifier(),
		registry.WithStore(repo),
		registry.WithClock(func() time.Time { return fixedTime }),
	)
	require.NoError(t, err)
	return reg
}

func TestRepositoryPersistsTransitions(t *testing.T) {
	repo := storage.NewRegistryRepository(setupTestDB(t))
	reg := newPersistentRegistry(t, repo)
	ctx := context.Background()

	_, err := reg.UpdateRoot(ctx, "issuer", r1)
	require.NoError(t, err)
	_, err = reg.UpdateRoot(ctx, "issuer", r2)
	require.NoError(t, err)
	_, err = reg.VerifyAndNullify(ctx, "prover", registry.Proof("p"), registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)
	require.NoError(t, reg.SetVerifier(ctx, "owner", registry.NewMockVerifier()))

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.Epochs, 2)
	assert.Equal(t, registry.Epoch{Index: 1, Root: r1, PublishedAt: fixedTime}, snapshot.Epochs[0])
	assert.Equal(t, r2, snapshot.Epochs[1].Root)

	require.Len(t, snapshot.Consumed, 1)
	assert.Equal(t, registry.ConsumedNullifier{
		Nullifier:  n,
		Root:       r1,
		SignalHash: s,
		Caller:     "prover",
		ConsumedAt: fixedTime,
	}, snapshot.Consumed[0])

	assert.Equal(t, reg.Events(0, 0), snapshot.Events)
	require.NotNil(t, snapshot.Verifier)
	assert.Equal(t, registry.VerifierMock, snapshot.Verifier.Kind)
}

func TestRepositoryRestoresRegistry(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reg := newPersistentRegistry(t, storage.NewRegistryRepository(db))
	_, err := reg.UpdateRoot(ctx, "issuer", r1)
	require.NoError(t, err)
	_, err = reg.VerifyAndNullify(ctx, "prover", registry.Proof("p"), registry.NewPublicInputs(r1, s, n))
	require.NoError(t, err)

	restarted := newPersistentRegistry(t, storage.NewRegistryRepository(db))
	require.NoError(t, restarted.Restore(ctx))

	assert.Equal(t, r1, restarted.CurrentRoot())
	assert.True(t, restarted.IsUsed(n))

	_, err = restarted.VerifyAndNullify(ctx, "prover", registry.Proof("p"), registry.NewPublicInputs(r1, s, n))
	assert.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)

	_, err = restarted.UpdateRoot(ctx, "issuer", r1)
	assert.ErrorIs(t, err, registry.ErrDuplicateRoot)
}

func TestRepositoryRestoresVerifierBinding(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	db := setupTestDB(t)
	ctx := context.Background()

	ps, err := zkp.SetupMembership()
	require.NoError(t, err)
	vkBytes, err := ps.VerifyingKeyBytes()
	require.NoError(t, err)
	snark, err := registry.NewSnarkVerifierFromBytes(vkBytes)
	require.NoError(t, err)

	reg := newPersistentRegistry(t, storage.NewRegistryRepository(db))
	_, err = reg.UpdateRoot(ctx, "issuer", r1)
	require.NoError(t, err)
	require.NoError(t, reg.SetVerifier(ctx, "owner", snark))

	// configured with mock, the restarted registry must still run groth16
	restarted := newPersistentRegistry(t, storage.NewRegistryRepository(db))
	require.NoError(t, restarted.Restore(ctx))
	assert.Equal(t, registry.VerifierGroth16, restarted.VerifierKind())

	_, err = restarted.VerifyAndNullify(ctx, "prover", registry.Proof("bogus"), registry.NewPublicInputs(r1, s, n))
	assert.ErrorIs(t, err, registry.ErrInvalidProof)
	assert.False(t, restarted.IsUsed(n))
}

func TestRepositoryKeepsLatestVerifierBinding(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewRegistryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Commit(ctx, registry.Transition{
		Verifier: &registry.VerifierBinding{Kind: registry.VerifierGroth16, VerifyingKey: []byte("vk-1")},
		Event:    registry.Event{Seq: 1, Kind: registry.EventVerifierUpdated, VerifierKind: registry.VerifierGroth16, CreatedAt: fixedTime},
	}))
	require.NoError(t, repo.Commit(ctx, registry.Transition{
		Verifier: &registry.VerifierBinding{Kind: registry.VerifierMock},
		Event:    registry.Event{Seq: 2, Kind: registry.EventVerifierUpdated, VerifierKind: registry.VerifierMock, CreatedAt: fixedTime},
	}))

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Verifier)
	assert.Equal(t, registry.VerifierMock, snapshot.Verifier.Kind)
	assert.Empty(t, snapshot.Verifier.VerifyingKey)

	empty, err := storage.NewRegistryRepository(setupTestDB(t)).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty.Verifier)
}

func TestRepositoryCommitIsAtomic(t *testing.T) {
	repo := storage.NewRegistryRepository(setupTestDB(t))
	ctx := context.Background()

	first := registry.ConsumedNullifier{Nullifier: n, Root: r1, SignalHash: s, Caller: "prover", ConsumedAt: fixedTime}
	require.NoError(t, repo.Commit(ctx, registry.Transition{
		Consumed: &first,
		Event:    registry.Event{Seq: 1, Kind: registry.EventProofVerified, Nullifier: n, Root: r1, CreatedAt: fixedTime},
	}))

	// the duplicate nullifier aborts the event insert too
	err := repo.Commit(ctx, registry.Transition{
		Consumed: &first,
		Event:    registry.Event{Seq: 2, Kind: registry.EventProofVerified, Nullifier: n, Root: r1, CreatedAt: fixedTime},
	})
	require.Error(t, err)

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Consumed, 1)
	assert.Len(t, snapshot.Events, 1)
}

func TestRepositoryOutbox(t *testing.T) {
	repo := storage.NewRegistryRepository(setupTestDB(t))
	reg := newPersistentRegistry(t, repo)
	ctx := context.Background()

	for _, root := range []registry.Hash256{r1, r2, registry.FieldElement("epoch-3-root")} {
		_, err := reg.UpdateRoot(ctx, "issuer", root)
		require.NoError(t, err)
	}

	pending, err := repo.GetUnpublishedEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, uint64(1), pending[0].Seq)
	assert.Equal(t, uint64(2), pending[1].Seq)

	require.NoError(t, repo.MarkEventsPublished(ctx, pending[0].Seq, pending[1].Seq))
	require.NoError(t, repo.MarkEventsPublished(ctx))

	pending, err = repo.GetUnpublishedEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, uint64(3), pending[0].Seq)
	assert.Equal(t, registry.EventRootUpdated, pending[0].Kind)
	assert.Equal(t, uint64(3), pending[0].Epoch)
}

func TestDatabaseConfigConvertToDomain(t *testing.T) {
	config := storage.DatabaseConfigJson{}.ConvertToDomain()
	assert.Equal(t, storage.DriverSqlite, config.Driver)
	assert.Equal(t, "registry.db", config.ConnectionString)
	assert.True(t, config.Migrate)

	off := false
	config = storage.DatabaseConfigJson{Driver: "postgres", ConnectionString: "host=db", Migrate: &off}.ConvertToDomain()
	assert.Equal(t, storage.DriverPostgres, config.Driver)
	assert.False(t, config.Migrate)

	_, err := storage.ConnectToDatabase(storage.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

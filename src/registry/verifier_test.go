package registry_test

import (
	"context"
	"credential-registry/pkg/zkp"
	"credential-registry/src/registry"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	snarkOnce   sync.Once
	snarkSystem *zkp.ProvingSystem
	snarkErr    error
)

func provingSystem(t *testing.T) *zkp.ProvingSystem {
	t.Helper()
	snarkOnce.Do(func() {
		snarkSystem, snarkErr = zkp.SetupMembership()
	})
	require.NoError(t, snarkErr)
	return snarkSystem
}

type issuedProof struct {
	root   registry.Hash256
	proof  registry.Proof
	inputs registry.PublicInputs
}

func issueAndProve(t *testing.T, ps *zkp.ProvingSystem, userSecret, appID, policyID string) issuedProof {
	t.Helper()

	tree := zkp.NewCredentialTree()
	for _, other := range []string{"carol-secret", userSecret, "dave-secret"} {
		_, err := tree.Add(zkp.HashToField(other))
		require.NoError(t, err)
	}
	path, err := tree.Path(1)
	require.NoError(t, err)

	bundle, err := ps.Prove(zkp.MembershipWitness{
		Secret:   zkp.HashToField(userSecret),
		AppID:    zkp.HashToField(appID),
		PolicyID: zkp.HashToField(policyID),
		Root:     tree.Root(),
		Path:     path,
	})
	require.NoError(t, err)

	inputs := make(registry.PublicInputs, 0, len(bundle.PublicInputs))
	for _, in := range bundle.PublicInputs {
		inputs = append(inputs, registry.Hash256(in))
	}

	root, err := registry.HashFromBig(tree.Root())
	require.NoError(t, err)

	return issuedProof{root: root, proof: bundle.Proof, inputs: inputs}
}

func TestSnarkVerifierEndToEnd(t *testing.T) {
	ps := provingSystem(t)
	issued := issueAndProve(t, ps, "alice-secret", "app-1", "over-18")

	assert.Equal(t, registry.ComputeNullifier("alice-secret", "app-1"), issued.inputs[2])
	assert.Equal(t, registry.ComputeSignalHash("app-1", "over-18"), issued.inputs[1])
	assert.NoError(t, registry.CheckSignal(issued.inputs, "app-1", "over-18"))

	verifier, err := registry.NewSnarkVerifier(ps.VerifyingKey)
	require.NoError(t, err)
	assert.Equal(t, registry.VerifierGroth16, verifier.Kind())

	reg := newRegistry(t, verifier)
	ctx := context.Background()
	publish(t, reg, issued.root)

	_, err = reg.VerifyAndNullify(ctx, prover, issued.proof, issued.inputs)
	require.NoError(t, err)
	assert.True(t, reg.IsUsed(issued.inputs[2]))

	_, err = reg.VerifyAndNullify(ctx, prover, issued.proof, issued.inputs)
	assert.ErrorIs(t, err, registry.ErrNullifierAlreadyUsed)
}

func TestSnarkVerifierRejectsBadInput(t *testing.T) {
	ps := provingSystem(t)
	issued := issueAndProve(t, ps, "bob-secret", "app-1", "over-18")

	vkBytes, err := ps.VerifyingKeyBytes()
	require.NoError(t, err)
	verifier, err := registry.NewSnarkVerifierFromBytes(vkBytes)
	require.NoError(t, err)

	assert.True(t, verifier.Verify(issued.proof, issued.inputs))

	outOfField, err := registry.HashFromBig(new(big.Int).Add(zkp.FieldModulus(), big.NewInt(1)))
	require.NoError(t, err)

	tamperedProof := append(registry.Proof(nil), issued.proof...)
	tamperedProof[len(tamperedProof)/2] ^= 0xff

	tests := []struct {
		name   string
		proof  registry.Proof
		inputs registry.PublicInputs
	}{
		{"other policy", issued.proof, registry.NewPublicInputs(issued.inputs[0], registry.ComputeSignalHash("app-1", "resident"), issued.inputs[2])},
		{"other nullifier", issued.proof, registry.NewPublicInputs(issued.inputs[0], issued.inputs[1], registry.ComputeNullifier("bob-secret", "app-2"))},
		{"input outside the field", issued.proof, registry.NewPublicInputs(issued.inputs[0], issued.inputs[1], outOfField)},
		{"wrong length", issued.proof, issued.inputs[:2]},
		{"empty proof", nil, issued.inputs},
		{"garbage proof", registry.Proof("not a proof"), issued.inputs},
		{"tampered proof", tamperedProof, issued.inputs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, verifier.Verify(tt.proof, tt.inputs))
		})
	}
}

func TestNewSnarkVerifierValidatesKey(t *testing.T) {
	_, err := registry.NewSnarkVerifier(nil)
	assert.ErrorIs(t, err, registry.ErrMalformedInput)

	_, err = registry.NewSnarkVerifierFromBytes([]byte("short"))
	assert.ErrorIs(t, err, registry.ErrMalformedInput)
}

func TestBindingOfRoundTrips(t *testing.T) {
	binding, err := registry.BindingOf(registry.NewMockVerifier())
	require.NoError(t, err)
	assert.Equal(t, registry.VerifierBinding{Kind: registry.VerifierMock}, binding)

	_, err = registry.BindingOf(registry.VerifierFunc(func(registry.Proof, registry.PublicInputs) bool { return true }))
	assert.ErrorIs(t, err, registry.ErrMalformedInput)

	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	vkBytes, err := provingSystem(t).VerifyingKeyBytes()
	require.NoError(t, err)
	snark, err := registry.NewSnarkVerifierFromBytes(vkBytes)
	require.NoError(t, err)

	binding, err = registry.BindingOf(snark)
	require.NoError(t, err)
	assert.Equal(t, registry.VerifierGroth16, binding.Kind)

	rebuilt, err := registry.ResolveVerifier(binding.Kind, binding.VerifyingKey)
	require.NoError(t, err)
	assert.Equal(t, registry.VerifierGroth16, rebuilt.Kind())
}

package main

import (
	"context"
	"credential-registry/src/registry"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProveMembershipVerifiesInRegistry(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}

	result, err := proveMembership("alice", []string{"bob", "alice", "carol"}, "app-1", "over-18")
	require.NoError(t, err)
	assert.Equal(t, registry.ComputeNullifier("alice", "app-1"), result.Nullifier)
	assert.Equal(t, registry.ComputeSignalHash("app-1", "over-18"), result.SignalHash)

	verifier, err := registry.NewSnarkVerifierFromBytes(result.VerifyingKey)
	require.NoError(t, err)
	reg, err := registry.New("issuer", "owner", verifier)
	require.NoError(t, err)
	_, err = reg.UpdateRoot(context.Background(), "issuer", result.Root)
	require.NoError(t, err)

	proof, inputs, err := registry.DecodeTransport(result.Request.SubmissionB64, "", nil)
	require.NoError(t, err)
	require.NoError(t, registry.CheckSignal(inputs, "app-1", "over-18"))

	receipt, err := reg.VerifyAndNullify(context.Background(), "prover", proof, inputs)
	require.NoError(t, err)
	assert.Equal(t, result.Nullifier, receipt.Nullifier)
}

func TestProveMembershipRejectsNonMember(t *testing.T) {
	_, err := proveMembership("mallory", []string{"bob", "alice"}, "app-1", "over-18")
	assert.Error(t, err)

	_, err = proveMembership("", []string{"alice"}, "app-1", "over-18")
	assert.Error(t, err)
}

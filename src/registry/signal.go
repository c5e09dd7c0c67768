package registry

import (
	"credential-registry/pkg/zkp"
	"fmt"
)

// FieldElement maps a string identifier into the proof field.
func FieldElement(s string) Hash256 {
	return zkp.ToBytes32(zkp.HashToField(s))
}

// ComputeSignalHash binds an application and policy into one public input.
func ComputeSignalHash(appID, policyID string) Hash256 {
	return zkp.ToBytes32(zkp.SignalHash(zkp.HashToField(appID), zkp.HashToField(policyID)))
}

// ComputeNullifier derives the one-time token of a user within an app. It
// runs on the prover side; the registry never sees userSecret.
func ComputeNullifier(userSecret, appID string) Hash256 {
	return zkp.ToBytes32(zkp.Nullifier(zkp.HashToField(userSecret), zkp.HashToField(appID)))
}

// CheckSignal lets a consuming application confirm that inputs were bound
// to its own (appID, policyID). The registry does not call it.
func CheckSignal(inputs PublicInputs, appID, policyID string) error {
	_, signalHash, _, err := inputs.Destructure()
	if err != nil {
		return err
	}
	if expected := ComputeSignalHash(appID, policyID); signalHash != expected {
		return fmt.Errorf("%w: signal hash %s does not match context %s/%s", ErrMalformedInput, signalHash, appID, policyID)
	}
	return nil
}

package zkp

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

var ErrMalformedPublicInputs = errors.New("malformed public inputs")

// ProvingSystem is a compiled membership circuit with its Groth16 keys.
type ProvingSystem struct {
	ConstraintSystem constraint.ConstraintSystem
	ProvingKey       groth16.ProvingKey
	VerifyingKey     groth16.VerifyingKey
}

// MembershipWitness is the private knowledge of a prover.
type MembershipWitness struct {
	Secret   *big.Int
	AppID    *big.Int
	PolicyID *big.Int
	Root     *big.Int
	Path     MerklePath
}

// ProofBundle is a serialized proof and its public inputs in circuit order.
type ProofBundle struct {
	Proof        []byte
	PublicInputs [PublicInputCount][32]byte
}

func CompileMembershipCircuit() (constraint.ConstraintSystem, error) {
	return frontend.Compile(
		ElipticalCurveID.ScalarField(),
		r1cs.NewBuilder,
		&MembershipCircuit{},
	)
}

// SetupMembership compiles the circuit and runs a single-party Groth16
// setup. Keys from this setup are only as trustworthy as the host.
func SetupMembership() (*ProvingSystem, error) {
	ccs, err := CompileMembershipCircuit()
	if err != nil {
		return nil, fmt.Errorf("compile membership circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}

	return &ProvingSystem{
		ConstraintSystem: ccs,
		ProvingKey:       pk,
		VerifyingKey:     vk,
	}, nil
}

func (ps *ProvingSystem) Prove(w MembershipWitness) (*ProofBundle, error) {
	nullifier := Nullifier(w.Secret, w.AppID)
	signalHash := SignalHash(w.AppID, w.PolicyID)

	assignment := MembershipCircuit{
		Root:       w.Root,
		SignalHash: signalHash,
		Nullifier:  nullifier,
		Secret:     w.Secret,
		AppID:      w.AppID,
		PolicyID:   w.PolicyID,
	}
	for i := 0; i < TreeDepth; i++ {
		if w.Path.Siblings[i] == nil {
			return nil, fmt.Errorf("missing sibling at height %d", i)
		}
		assignment.Siblings[i] = w.Path.Siblings[i]
		assignment.PathBits[i] = int(w.Path.PathBits[i])
	}

	fullWitness, err := frontend.NewWitness(&assignment, ElipticalCurveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}

	proof, err := groth16.Prove(ps.ConstraintSystem, ps.ProvingKey, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}

	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("serialize proof: %w", err)
	}

	return &ProofBundle{
		Proof: proofBuf.Bytes(),
		PublicInputs: [PublicInputCount][32]byte{
			ToBytes32(w.Root),
			ToBytes32(signalHash),
			ToBytes32(nullifier),
		},
	}, nil
}

func (ps *ProvingSystem) VerifyingKeyBytes() ([]byte, error) {
	return MarshalVerifyingKey(ps.VerifyingKey)
}

func MarshalVerifyingKey(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnmarshalVerifyingKey(b []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ElipticalCurveID)
	if _, err := vk.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}
	return vk, nil
}

// VerifyMembership checks a serialized Groth16 proof against vk for the
// given public inputs. Every input must be a canonical field element.
func VerifyMembership(vk groth16.VerifyingKey, proofBytes []byte, publicInputs [][]byte) error {
	if len(publicInputs) != PublicInputCount {
		return fmt.Errorf("%w: expected %d inputs, got %d", ErrMalformedPublicInputs, PublicInputCount, len(publicInputs))
	}

	values := make([]*big.Int, PublicInputCount)
	for i, in := range publicInputs {
		if len(in) != 32 || !IsCanonical(in) {
			return fmt.Errorf("%w: input %d is not a field element", ErrMalformedPublicInputs, i)
		}
		values[i] = new(big.Int).SetBytes(in)
	}

	proof := groth16.NewProof(ElipticalCurveID)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("read proof: %w", err)
	}

	publicAssignment := MembershipCircuit{
		Root:       values[0],
		SignalHash: values[1],
		Nullifier:  values[2],
	}
	publicWitness, err := frontend.NewWitness(&publicAssignment, ElipticalCurveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("build public witness: %w", err)
	}

	return groth16.Verify(proof, vk, publicWitness)
}

package registry

import (
	"credential-registry/pkg/logger"
	"credential-registry/pkg/zkp"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
)

type VerifierKind string

const (
	VerifierMock    VerifierKind = "mock"
	VerifierGroth16 VerifierKind = "groth16"
	VerifierCustom  VerifierKind = "custom"
)

// Verifier checks a proof against its public inputs. Implementations must
// be side-effect free and deterministic, and must return false on a
// malformed input shape instead of panicking.
type Verifier interface {
	Kind() VerifierKind
	Verify(proof Proof, inputs PublicInputs) bool
}

// MockVerifier accepts any well-formed input: three public inputs with a
// non-zero nullifier. For tests and demos without a trusted setup.
type MockVerifier struct{}

func NewMockVerifier() MockVerifier {
	return MockVerifier{}
}

func (MockVerifier) Kind() VerifierKind {
	return VerifierMock
}

func (MockVerifier) Verify(_ Proof, inputs PublicInputs) bool {
	_, _, nullifier, err := inputs.Destructure()
	return err == nil && !nullifier.IsZero()
}

// SnarkVerifier checks Groth16 membership proofs over BN254 against a
// verifying key fixed at construction.
type SnarkVerifier struct {
	vk groth16.VerifyingKey
}

func NewSnarkVerifier(vk groth16.VerifyingKey) (*SnarkVerifier, error) {
	if vk == nil {
		return nil, fmt.Errorf("%w: nil verifying key", ErrMalformedInput)
	}
	return &SnarkVerifier{vk: vk}, nil
}

func NewSnarkVerifierFromBytes(vkBytes []byte) (*SnarkVerifier, error) {
	vk, err := zkp.UnmarshalVerifyingKey(vkBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return NewSnarkVerifier(vk)
}

func (sv *SnarkVerifier) VerifyingKeyBytes() ([]byte, error) {
	return zkp.MarshalVerifyingKey(sv.vk)
}

func (sv *SnarkVerifier) Kind() VerifierKind {
	return VerifierGroth16
}

func (sv *SnarkVerifier) Verify(proof Proof, inputs PublicInputs) (ok bool) {
	if len(inputs) != publicInputCount || len(proof) == 0 {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Default().Warnf("groth16 verifier recovered from panic: %v", r)
			ok = false
		}
	}()

	raw := make([][]byte, len(inputs))
	for i, in := range inputs {
		raw[i] = in.Bytes()
	}

	if err := zkp.VerifyMembership(sv.vk, proof, raw); err != nil {
		logger.Default().Debugf("groth16 verification failed: %v", err)
		return false
	}
	return true
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(proof Proof, inputs PublicInputs) bool

func (f VerifierFunc) Kind() VerifierKind {
	return VerifierCustom
}

func (f VerifierFunc) Verify(proof Proof, inputs PublicInputs) bool {
	return f(proof, inputs)
}

// ResolveVerifier builds a verifier by kind. groth16 needs the
// gnark-serialized verifying key; custom verifiers are only installed
// from code.
func ResolveVerifier(kind VerifierKind, vkBytes []byte) (Verifier, error) {
	switch kind {
	case VerifierMock:
		return NewMockVerifier(), nil
	case VerifierGroth16:
		if len(vkBytes) == 0 {
			return nil, fmt.Errorf("%w: groth16 verifier needs a verifying key", ErrMalformedInput)
		}
		return NewSnarkVerifierFromBytes(vkBytes)
	default:
		return nil, fmt.Errorf("%w: unsupported verifier kind %q", ErrMalformedInput, kind)
	}
}

// BindingOf returns the stored form of v. Custom verifiers have no stored
// form and cannot be rebuilt after a restart.
func BindingOf(v Verifier) (VerifierBinding, error) {
	switch verifier := v.(type) {
	case MockVerifier:
		return VerifierBinding{Kind: VerifierMock}, nil
	case *SnarkVerifier:
		vk, err := verifier.VerifyingKeyBytes()
		if err != nil {
			return VerifierBinding{}, fmt.Errorf("%w: serialize verifying key: %v", ErrMalformedInput, err)
		}
		return VerifierBinding{Kind: VerifierGroth16, VerifyingKey: vk}, nil
	default:
		return VerifierBinding{}, fmt.Errorf("%w: %s verifier cannot be persisted", ErrMalformedInput, v.Kind())
	}
}

package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Principal identifies a caller. Over the wire it is a base58 ed25519
// public key.
type Principal string

// Proof is an opaque, verifier-specific payload.
type Proof []byte

// PublicInputs is the fixed-order triple [root, signalHash, nullifier].
type PublicInputs []Hash256

const (
	rootPosition = iota
	signalHashPosition
	nullifierPosition
	publicInputCount
)

func NewPublicInputs(root, signalHash, nullifier Hash256) PublicInputs {
	return PublicInputs{root, signalHash, nullifier}
}

// Destructure splits the inputs by position.
func (pi PublicInputs) Destructure() (root, signalHash, nullifier Hash256, err error) {
	if len(pi) != publicInputCount {
		return ZeroHash, ZeroHash, ZeroHash, fmt.Errorf(
			"%w: expected %d public inputs, got %d", ErrMalformedInput, publicInputCount, len(pi))
	}
	return pi[rootPosition], pi[signalHashPosition], pi[nullifierPosition], nil
}

func ParsePublicInputs(values []string) (PublicInputs, error) {
	inputs := make(PublicInputs, 0, len(values))
	for i, v := range values {
		h, err := ParseHash256(v)
		if err != nil {
			return nil, fmt.Errorf("public input %d: %w", i, err)
		}
		inputs = append(inputs, h)
	}
	return inputs, nil
}

func (pi PublicInputs) Strings() []string {
	out := make([]string, len(pi))
	for i, h := range pi {
		out[i] = h.String()
	}
	return out
}

// Epoch is one accepted root publication. Index starts at 1.
type Epoch struct {
	Index       uint64
	Root        Hash256
	PublishedAt time.Time
}

type ConsumedNullifier struct {
	Nullifier  Hash256
	Root       Hash256
	SignalHash Hash256
	Caller     Principal
	ConsumedAt time.Time
}

type EventKind string

const (
	EventRootUpdated     EventKind = "RootUpdated"
	EventProofVerified   EventKind = "ProofVerified"
	EventVerifierUpdated EventKind = "VerifierUpdated"
)

// Event is an entry of the ordered notification log. Seq is gap-free and
// starts at 1. Fields that do not apply to Kind are zero.
type Event struct {
	Seq          uint64
	Id           uuid.UUID
	Kind         EventKind
	Caller       Principal
	Epoch        uint64
	Root         Hash256
	Nullifier    Hash256
	SignalHash   Hash256
	VerifierKind VerifierKind
	CreatedAt    time.Time
}

// Receipt is returned by a successful VerifyAndNullify.
type Receipt struct {
	Nullifier  Hash256
	Root       Hash256
	SignalHash Hash256
	Epoch      uint64
	EventSeq   uint64
}

package zkp

import (
	"fmt"

	"github.com/near/borsh-go"
)

// Submission is the borsh wire blob a prover hands to the registry.
type Submission struct {
	Proof        []byte
	PublicInputs [][]byte
}

func NewSubmission(bundle *ProofBundle) Submission {
	inputs := make([][]byte, 0, PublicInputCount)
	for _, in := range bundle.PublicInputs {
		v := in
		inputs = append(inputs, v[:])
	}

	return Submission{
		Proof:        bundle.Proof,
		PublicInputs: inputs,
	}
}

func (s Submission) SerializeBorsh() ([]byte, error) {
	return borsh.Serialize(s)
}

func DeserializeSubmission(b []byte) (Submission, error) {
	var s Submission
	if err := borsh.Deserialize(&s, b); err != nil {
		return Submission{}, fmt.Errorf("deserialize submission: %w", err)
	}
	return s, nil
}

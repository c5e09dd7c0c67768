package registry

import (
	"credential-registry/pkg/zkp"
	"encoding/base64"
	"fmt"
)

// DecodeSubmission unpacks a borsh submission blob into a proof and its
// public inputs.
func DecodeSubmission(blob []byte) (Proof, PublicInputs, error) {
	s, err := zkp.DeserializeSubmission(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	inputs := make(PublicInputs, 0, len(s.PublicInputs))
	for i, raw := range s.PublicInputs {
		h, err := HashFromBytes(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("public input %d: %w", i, err)
		}
		inputs = append(inputs, h)
	}
	return Proof(s.Proof), inputs, nil
}

// EncodeSubmission is the inverse of DecodeSubmission.
func EncodeSubmission(proof Proof, inputs PublicInputs) ([]byte, error) {
	raw := make([][]byte, len(inputs))
	for i, in := range inputs {
		raw[i] = in.Bytes()
	}
	return zkp.Submission{Proof: proof, PublicInputs: raw}.SerializeBorsh()
}

// DecodeTransport resolves the two transport shapes: a base64 borsh
// submission, or a base64 proof with textual public inputs. Exactly one
// shape must be present.
func DecodeTransport(submissionB64, proofB64 string, publicInputs []string) (Proof, PublicInputs, error) {
	switch {
	case submissionB64 != "" && (proofB64 != "" || len(publicInputs) > 0):
		return nil, nil, fmt.Errorf("%w: submission and proof fields are mutually exclusive", ErrMalformedInput)
	case submissionB64 != "":
		blob, err := base64.StdEncoding.DecodeString(submissionB64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: submission is not base64: %v", ErrMalformedInput, err)
		}
		return DecodeSubmission(blob)
	case proofB64 != "":
		proof, err := base64.StdEncoding.DecodeString(proofB64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: proof is not base64: %v", ErrMalformedInput, err)
		}
		inputs, err := ParsePublicInputs(publicInputs)
		if err != nil {
			return nil, nil, err
		}
		return Proof(proof), inputs, nil
	default:
		return nil, nil, fmt.Errorf("%w: neither submission nor proof given", ErrMalformedInput)
	}
}

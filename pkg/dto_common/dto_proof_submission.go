package dtocommon

import "credential-registry/pkg/utilities"

// ProofSubmissionDto carries a proof either as a borsh submission blob or
// as a raw proof plus its public inputs.
type ProofSubmissionDto struct {
	EventId       string   `json:"event_id"`
	Caller        string   `json:"caller"`
	SubmissionB64 string   `json:"submission_b64,omitempty"`
	ProofB64      string   `json:"proof_b64,omitempty"`
	PublicInputs  []string `json:"public_inputs,omitempty"`
}

func (psd ProofSubmissionDto) Serialize() ([]byte, error) {
	return utilities.Serialize(psd)
}

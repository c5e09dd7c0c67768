package dtocommon

import (
	reasoncodes "credential-registry/pkg/reason_codes"
	"credential-registry/pkg/utilities"
)

type ProofVerifiedDto struct {
	EventId    string                 `json:"event_id"`
	Caller     string                 `json:"caller"`
	Nullifier  string                 `json:"nullifier"`
	Root       string                 `json:"root"`
	SignalHash string                 `json:"signal_hash"`
	Epoch      uint64                 `json:"epoch"`
	EventSeq   uint64                 `json:"event_seq"`
	ReasonCode reasoncodes.ReasonCode `json:"reason_code"`
}

func (pvd ProofVerifiedDto) Serialize() ([]byte, error) {
	return utilities.Serialize(pvd)
}

type ProofFailureDto struct {
	EventId     string                 `json:"event_id"`
	RequestBody []byte                 `json:"request_body"`
	Error       string                 `json:"error,omitempty"`
	ReasonCode  reasoncodes.ReasonCode `json:"reason_code"`
}

func (pfd ProofFailureDto) Serialize() ([]byte, error) {
	return utilities.Serialize(pfd)
}

package registryapi

import (
	"credential-registry/src/registry"
	"time"
)

type ErrorResponse struct {
	Error      string `json:"error"`
	ReasonCode string `json:"reason_code"`
}

type ExpectedSignal struct {
	AppId    string `json:"app_id" binding:"required"`
	PolicyId string `json:"policy_id" binding:"required"`
}

// VerifyProofRequest carries either SubmissionB64 or ProofB64 with
// PublicInputs.
type VerifyProofRequest struct {
	SubmissionB64  string          `json:"submission_b64,omitempty"`
	ProofB64       string          `json:"proof_b64,omitempty"`
	PublicInputs   []string        `json:"public_inputs,omitempty"`
	ExpectedSignal *ExpectedSignal `json:"expected_signal,omitempty"`
}

type ReceiptResponse struct {
	Nullifier  registry.Hash256 `json:"nullifier"`
	Root       registry.Hash256 `json:"root"`
	SignalHash registry.Hash256 `json:"signal_hash"`
	Epoch      uint64           `json:"epoch"`
	EventSeq   uint64           `json:"event_seq"`
}

func newReceiptResponse(r registry.Receipt) ReceiptResponse {
	return ReceiptResponse(r)
}

type UpdateRootRequest struct {
	Root string `json:"root" binding:"required"`
}

type EpochResponse struct {
	Index       uint64           `json:"epoch"`
	Root        registry.Hash256 `json:"root"`
	PublishedAt time.Time        `json:"published_at"`
}

func newEpochResponse(e registry.Epoch) EpochResponse {
	return EpochResponse(e)
}

type RootStatusResponse struct {
	Root  registry.Hash256 `json:"root"`
	Valid bool             `json:"valid"`
	Epoch *EpochResponse   `json:"epoch,omitempty"`
}

type CurrentRootResponse struct {
	Root  registry.Hash256 `json:"root"`
	Epoch uint64           `json:"epoch"`
}

type NullifierStatusResponse struct {
	Nullifier  registry.Hash256  `json:"nullifier"`
	Used       bool              `json:"used"`
	Root       *registry.Hash256 `json:"root,omitempty"`
	ConsumedAt *time.Time        `json:"consumed_at,omitempty"`
}

type SetVerifierRequest struct {
	Kind            string `json:"kind" binding:"required"`
	VerifyingKeyB64 string `json:"verifying_key_b64,omitempty"`
}

type VerifierResponse struct {
	Kind string `json:"kind"`
}

type EventResponse struct {
	Seq          uint64            `json:"seq"`
	Id           string            `json:"id"`
	Kind         string            `json:"kind"`
	Caller       string            `json:"caller"`
	Epoch        uint64            `json:"epoch,omitempty"`
	Root         *registry.Hash256 `json:"root,omitempty"`
	Nullifier    *registry.Hash256 `json:"nullifier,omitempty"`
	SignalHash   *registry.Hash256 `json:"signal_hash,omitempty"`
	VerifierKind string            `json:"verifier_kind,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func optionalHash(h registry.Hash256) *registry.Hash256 {
	if h.IsZero() {
		return nil
	}
	return &h
}

func newEventResponse(e registry.Event) EventResponse {
	return EventResponse{
		Seq:          e.Seq,
		Id:           e.Id.String(),
		Kind:         string(e.Kind),
		Caller:       string(e.Caller),
		Epoch:        e.Epoch,
		Root:         optionalHash(e.Root),
		Nullifier:    optionalHash(e.Nullifier),
		SignalHash:   optionalHash(e.SignalHash),
		VerifierKind: string(e.VerifierKind),
		CreatedAt:    e.CreatedAt,
	}
}

type SignalRequest struct {
	AppId    string `json:"app_id" binding:"required"`
	PolicyId string `json:"policy_id" binding:"required"`
}

type SignalResponse struct {
	AppId      string           `json:"app_id"`
	PolicyId   string           `json:"policy_id"`
	SignalHash registry.Hash256 `json:"signal_hash"`
}

package dtocommon

import "credential-registry/pkg/utilities"

// RegistryEventDto is the broker form of a committed registry event.
// Zero-valued fields that do not apply to Kind are omitted.
type RegistryEventDto struct {
	Seq          uint64 `json:"seq"`
	Id           string `json:"id"`
	Kind         string `json:"kind"`
	Caller       string `json:"caller"`
	Epoch        uint64 `json:"epoch,omitempty"`
	Root         string `json:"root,omitempty"`
	Nullifier    string `json:"nullifier,omitempty"`
	SignalHash   string `json:"signal_hash,omitempty"`
	VerifierKind string `json:"verifier_kind,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func (red RegistryEventDto) Serialize() ([]byte, error) {
	return utilities.Serialize(red)
}

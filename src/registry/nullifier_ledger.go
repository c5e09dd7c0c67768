package registry

import "fmt"

// NullifierLedger is the registry-wide set of consumed nullifiers.
// Entries are never removed.
type NullifierLedger struct {
	consumed map[Hash256]ConsumedNullifier
}

func NewNullifierLedger() *NullifierLedger {
	return &NullifierLedger{consumed: make(map[Hash256]ConsumedNullifier)}
}

func (nl *NullifierLedger) IsUsed(nullifier Hash256) bool {
	_, ok := nl.consumed[nullifier]
	return ok
}

func (nl *NullifierLedger) Lookup(nullifier Hash256) (ConsumedNullifier, bool) {
	c, ok := nl.consumed[nullifier]
	return c, ok
}

func (nl *NullifierLedger) Len() int {
	return len(nl.consumed)
}

// markConsumed is only called by Registry after a proof has verified.
func (nl *NullifierLedger) markConsumed(entry ConsumedNullifier) error {
	if nl.IsUsed(entry.Nullifier) {
		return fmt.Errorf("%w: %s", ErrNullifierAlreadyUsed, entry.Nullifier)
	}
	nl.consumed[entry.Nullifier] = entry
	return nil
}

package registry

import (
	"fmt"
	"time"
)

// RootStore keeps every root ever published. Roots are never pruned so
// proofs built against an older root keep verifying after rotation.
type RootStore struct {
	current Hash256
	valid   map[Hash256]uint64
	epochs  []Epoch
}

func NewRootStore() *RootStore {
	return &RootStore{valid: make(map[Hash256]uint64)}
}

func (rs *RootStore) check(root Hash256) error {
	if root.IsZero() {
		return fmt.Errorf("%w: zero root", ErrMalformedInput)
	}
	if _, exists := rs.valid[root]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoot, root)
	}
	return nil
}

// next returns the epoch PublishRoot would create, without applying it.
func (rs *RootStore) next(root Hash256, at time.Time) (Epoch, error) {
	if err := rs.check(root); err != nil {
		return Epoch{}, err
	}
	return Epoch{
		Index:       uint64(len(rs.epochs)) + 1,
		Root:        root,
		PublishedAt: at,
	}, nil
}

func (rs *RootStore) apply(epoch Epoch) {
	rs.valid[epoch.Root] = epoch.Index
	rs.epochs = append(rs.epochs, epoch)
	rs.current = epoch.Root
}

// PublishRoot accepts root as the current commitment. Authorization is
// the Registry's job.
func (rs *RootStore) PublishRoot(root Hash256, at time.Time) (Epoch, error) {
	epoch, err := rs.next(root, at)
	if err != nil {
		return Epoch{}, err
	}
	rs.apply(epoch)
	return epoch, nil
}

func (rs *RootStore) IsValidRoot(root Hash256) bool {
	_, ok := rs.valid[root]
	return ok
}

// CurrentRoot is ZeroHash until the first publication.
func (rs *RootStore) CurrentRoot() Hash256 {
	return rs.current
}

func (rs *RootStore) CurrentEpoch() uint64 {
	return uint64(len(rs.epochs))
}

func (rs *RootStore) EpochOf(root Hash256) (Epoch, bool) {
	index, ok := rs.valid[root]
	if !ok {
		return Epoch{}, false
	}
	return rs.epochs[index-1], true
}

func (rs *RootStore) Epochs() []Epoch {
	out := make([]Epoch, len(rs.epochs))
	copy(out, rs.epochs)
	return out
}
